package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/lysyi3m/nga-monitor/app/config"
	"github.com/lysyi3m/nga-monitor/app/crawler"
)

const postsPerPage = 20

// fetchThreadPages retrieves every page of a thread from the watermark page
// onward. The first page is fetched synchronously and its failure aborts the
// check; remaining pages fan out under a semaphore of parallelLimit slots and
// individual failures are dropped. The result is sorted by ascending page
// number regardless of completion order.
func fetchThreadPages(ctx context.Context, fetcher Fetcher, thread config.MonitoredThread,
	parallelLimit int) ([]*crawler.Page, error) {

	startPage := thread.LastSeenPostNumber/postsPerPage + 1

	first, err := fetcher.FetchPage(ctx, thread.TID, startPage)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d of thread %d: %w", startPage, thread.TID, err)
	}

	pages := []*crawler.Page{first}

	if first.TotalPages > startPage {
		semaphore := make(chan struct{}, parallelLimit)
		var mu sync.Mutex
		var wg sync.WaitGroup

		for pageNum := startPage + 1; pageNum <= first.TotalPages; pageNum++ {
			wg.Add(1)
			go func(pageNum uint64) {
				defer wg.Done()
				semaphore <- struct{}{}
				defer func() { <-semaphore }()

				page, err := fetcher.FetchPage(ctx, thread.TID, pageNum)
				if err != nil {
					// Best effort: one bad page must not hide posts on the others.
					slog.Warn("Page fetch failed, dropping page", "tid", thread.TID,
						"page", pageNum, "error", err)
					return
				}

				mu.Lock()
				pages = append(pages, page)
				mu.Unlock()
			}(pageNum)
		}

		wg.Wait()
	}

	// Completion order is not page order; scanning depends on the latter.
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].CurrentPage < pages[j].CurrentPage
	})

	return pages, nil
}
