package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/nga-monitor/app/api"
	"github.com/lysyi3m/nga-monitor/app/cfg"
	"github.com/lysyi3m/nga-monitor/app/config"
	"github.com/lysyi3m/nga-monitor/app/crawler"
	"github.com/lysyi3m/nga-monitor/app/database"
	"github.com/lysyi3m/nga-monitor/app/monitor"
	"github.com/lysyi3m/nga-monitor/app/notifier"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)
	slog.Info("Starting NGA Monitor", "version", appCfg.Version)

	// The config file is the single source of truth for crawler credentials,
	// thread list and watermarks; unrecoverable load failure is fatal.
	holder, err := config.NewHolder(appCfg.ConfigPath)
	if err != nil {
		slog.Error("Failed to load monitor configuration", "path", appCfg.ConfigPath, "error", err)
		os.Exit(1)
	}
	slog.Info("Configuration loaded", "path", appCfg.ConfigPath,
		"threads", len(holder.MonitorConfig().MonitoredThreads))

	// Optional post archive
	var archive *database.Archive
	if appCfg.ArchivePath != "" {
		db, err := database.NewConnection(appCfg.ArchivePath)
		if err != nil {
			slog.Error("Failed to open archive database", "path", appCfg.ArchivePath, "error", err)
			os.Exit(1)
		}
		defer db.Close()

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			slog.Error("Failed to run archive migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Archive database ready", "path", appCfg.ArchivePath,
			"schema_version", version, "dirty", dirty)

		archive = database.NewArchive(db)
	} else {
		slog.Info("Archiving disabled (ARCHIVE_PATH not set)")
	}

	// Core components
	threadCrawler := crawler.New(holder)
	dispatcher := notifier.NewDispatcher(holder.NotifierConfig())
	slog.Info("Notification sinks configured", "count", dispatcher.SinkCount())

	threadMonitor := newMonitor(holder, threadCrawler, dispatcher, archive)
	threadMonitor.Start()
	defer threadMonitor.Stop()

	// Admin HTTP server
	var archiveReader api.ArchiveReader
	if archive != nil {
		archiveReader = archive
	}
	handler := api.NewHandler(holder, archiveReader)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	webConfig := holder.WebConfig()
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", webConfig.Host, webConfig.Port),
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting admin HTTP server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Monitor is stopped via defer
	slog.Info("Shutdown complete")
}

func newMonitor(holder *config.Holder, threadCrawler *crawler.Crawler,
	dispatcher *notifier.Dispatcher, archive *database.Archive) *monitor.Monitor {
	// A nil *database.Archive must become a nil interface, not a typed nil.
	if archive == nil {
		return monitor.New(holder, threadCrawler, dispatcher, nil)
	}
	return monitor.New(holder, threadCrawler, dispatcher, archive)
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
