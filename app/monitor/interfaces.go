package monitor

import (
	"context"

	"github.com/lysyi3m/nga-monitor/app/config"
	"github.com/lysyi3m/nga-monitor/app/crawler"
)

type Fetcher interface {
	FetchPage(ctx context.Context, tid, page uint64) (*crawler.Page, error)
}

var _ Fetcher = (*crawler.Crawler)(nil)

type Dispatcher interface {
	Dispatch(post crawler.Post)
}

// ConfigStore is the persisted configuration consumed by the loop: the
// thread list is snapshotted each tick and watermark updates are handed
// back once per tick.
type ConfigStore interface {
	MonitorConfig() config.MonitorConfig
	UpdateLastSeen(tidToPostNumber map[uint64]uint64) error
}

var _ ConfigStore = (*config.Holder)(nil)

// Archive persists fetched thread data for later querying. Optional; the
// monitor runs identically without one.
type Archive interface {
	SaveThreadPage(page *crawler.Page) error
	SavePosts(posts []crawler.Post) error
}
