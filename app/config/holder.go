package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Holder owns the configuration file. All reads go through copied snapshots
// and all mutations are serialized behind one mutex around the
// read-modify-write-whole-file sequence, so concurrent mutators (monitor
// watermark updates, admin passport updates) never interleave partial writes.
type Holder struct {
	path   string
	mu     sync.Mutex
	config Config
}

func NewHolder(path string) (*Holder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	h := &Holder{
		path:   path,
		config: config,
	}

	if err := h.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return h, nil
}

func (h *Holder) validate() error {
	if h.config.Monitor.FetchPostsParallelLimit <= 0 {
		return fmt.Errorf("monitor.fetchPostsParallelLimit must be positive")
	}
	if h.config.Monitor.MonitorDuration <= 0 {
		return fmt.Errorf("monitor.monitorDuration must be positive")
	}
	if h.config.Crawler.APIURL == "" {
		return fmt.Errorf("crawler.apiUrl is required")
	}
	return nil
}

// Snapshot returns a copy of the full configuration.
func (h *Holder) Snapshot() Config {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.copyConfig()
}

func (h *Holder) CrawlerConfig() CrawlerConfig {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.config.Crawler
}

func (h *Holder) MonitorConfig() MonitorConfig {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.copyConfig().Monitor
}

func (h *Holder) NotifierConfig() NotifierConfig {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.copyConfig().Notifier
}

func (h *Holder) WebConfig() WebConfig {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.config.Web
}

// UpdateLastSeen applies a batch of watermark updates and rewrites the file.
// Watermarks never decrease; threads absent from the map are untouched.
func (h *Holder) UpdateLastSeen(tidToPostNumber map[uint64]uint64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.config.Monitor.MonitoredThreads {
		thread := &h.config.Monitor.MonitoredThreads[i]
		lastSeen, ok := tidToPostNumber[thread.TID]
		if !ok {
			continue
		}
		if lastSeen < thread.LastSeenPostNumber {
			slog.Warn("Ignoring watermark regression", "tid", thread.TID,
				"current", thread.LastSeenPostNumber, "proposed", lastSeen)
			continue
		}
		thread.LastSeenPostNumber = lastSeen
	}

	return h.writeToFile()
}

// UpdatePassport replaces the crawler session credentials and rewrites the file.
func (h *Holder) UpdatePassport(cid, uid string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.config.Crawler.NGAPassportCID = cid
	h.config.Crawler.NGAPassportUID = uid

	return h.writeToFile()
}

func (h *Holder) writeToFile() error {
	data, err := json.MarshalIndent(h.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(h.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (h *Holder) copyConfig() Config {
	config := h.config

	threads := make([]MonitoredThread, len(h.config.Monitor.MonitoredThreads))
	copy(threads, h.config.Monitor.MonitoredThreads)
	for i := range threads {
		threads[i].AuthorNotification = append([]uint64(nil), threads[i].AuthorNotification...)
		threads[i].CheckSchedule = append([]CheckSchedule(nil), threads[i].CheckSchedule...)
	}
	config.Monitor.MonitoredThreads = threads

	if h.config.Notifier.Bark != nil {
		bark := *h.config.Notifier.Bark
		config.Notifier.Bark = &bark
	}
	if h.config.Notifier.Console != nil {
		console := *h.config.Notifier.Console
		config.Notifier.Console = &console
	}

	return config
}
