package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/nga-monitor/app/config"
	"github.com/lysyi3m/nga-monitor/app/crawler"
)

// Monitor drives the check loop: each tick it snapshots the configured
// thread list, checks every enabled thread that is due, notifies on
// qualifying posts and batches watermark updates into a single store write.
type Monitor struct {
	store      ConfigStore
	fetcher    Fetcher
	dispatcher Dispatcher
	archive    Archive // may be nil

	// lastCheck is owned exclusively by the loop goroutine and reset on
	// restart, so every thread is due on the first tick of a new process.
	lastCheck map[uint64]time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(store ConfigStore, fetcher Fetcher, dispatcher Dispatcher, archive Archive) *Monitor {
	if store.MonitorConfig().FetchPostsParallelLimit <= 0 {
		panic("monitor: fetchPostsParallelLimit must be positive")
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Monitor{
		store:      store,
		fetcher:    fetcher,
		dispatcher: dispatcher,
		archive:    archive,
		lastCheck:  make(map[uint64]time.Time),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (m *Monitor) Start() {
	duration := time.Duration(m.store.MonitorConfig().MonitorDuration) * time.Second
	slog.Info("Starting thread monitor", "tick", duration)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		// Ticker drops ticks when the loop falls behind; a missed tick is
		// skipped, never replayed.
		ticker := time.NewTicker(duration)
		defer ticker.Stop()

		for {
			select {
			case <-m.ctx.Done():
				return
			case <-ticker.C:
				m.runSweep(m.ctx)
			}
		}
	}()
}

func (m *Monitor) Stop() {
	m.cancel()
	m.wg.Wait()
}

// runSweep processes every configured thread once. A single thread's failure
// is logged and never aborts the rest of the sweep.
func (m *Monitor) runSweep(ctx context.Context) {
	monitorConfig := m.store.MonitorConfig()
	tidToMaxPostNumber := make(map[uint64]uint64)

	for _, thread := range monitorConfig.MonitoredThreads {
		if !thread.Enabled {
			continue
		}

		now := time.Now()
		lastChecked, checked := m.lastCheck[thread.TID]
		if !isDue(thread, lastChecked, checked, now) {
			continue
		}

		maxPostNumber, err := m.checkThread(ctx, thread, monitorConfig.FetchPostsParallelLimit)
		if err != nil {
			slog.Error("Thread check failed", "tid", thread.TID, "error", err)
		} else {
			slog.Info("Thread check finished", "tid", thread.TID, "max_post_number", maxPostNumber)
			tidToMaxPostNumber[thread.TID] = maxPostNumber
		}

		// A failed check still counts as attempted, so a broken thread is
		// retried at its interval, not every tick.
		m.lastCheck[thread.TID] = time.Now()
	}

	if len(tidToMaxPostNumber) == 0 {
		return
	}
	if err := m.store.UpdateLastSeen(tidToMaxPostNumber); err != nil {
		slog.Error("Failed to persist watermarks", "error", err)
	}
}

// checkThread fetches the thread's pages from the watermark onward, scans
// them in page order and dispatches notifications for qualifying posts.
func (m *Monitor) checkThread(ctx context.Context, thread config.MonitoredThread,
	parallelLimit int) (uint64, error) {

	slog.Debug("Checking thread", "tid", thread.TID,
		"last_seen_post_number", thread.LastSeenPostNumber)

	pages, err := fetchThreadPages(ctx, m.fetcher, thread, parallelLimit)
	if err != nil {
		return 0, err
	}

	maxPostNumber, notify := scanPosts(thread, pages)

	for _, post := range notify {
		slog.Info("Collected notify post", "tid", post.TID, "pid", post.PID,
			"post_number", post.PostNumber)
		m.dispatcher.Dispatch(post)
	}

	m.archivePages(pages)

	return maxPostNumber, nil
}

func (m *Monitor) archivePages(pages []*crawler.Page) {
	if m.archive == nil || len(pages) == 0 {
		return
	}

	if err := m.archive.SaveThreadPage(pages[len(pages)-1]); err != nil {
		slog.Warn("Failed to archive thread metadata", "tid", pages[0].TID, "error", err)
	}

	for _, page := range pages {
		if err := m.archive.SavePosts(page.Posts); err != nil {
			slog.Warn("Failed to archive posts", "tid", page.TID,
				"page", page.CurrentPage, "error", err)
		}
	}
}
