package monitor

import (
	"github.com/lysyi3m/nga-monitor/app/config"
	"github.com/lysyi3m/nga-monitor/app/crawler"
)

// scanPosts walks page-ordered posts once, returning the new watermark and
// the posts that qualify for notification. Qualification is judged against
// the watermark from before this sweep, so several new posts by a watched
// author all notify, not just the newest. The returned watermark never falls
// below the thread's existing one.
func scanPosts(thread config.MonitoredThread, pages []*crawler.Page) (uint64, []crawler.Post) {
	watched := make(map[uint64]struct{}, len(thread.AuthorNotification))
	for _, uid := range thread.AuthorNotification {
		watched[uid] = struct{}{}
	}

	maxPostNumber := uint64(0)
	var notify []crawler.Post

	for _, page := range pages {
		for _, post := range page.Posts {
			if post.PostNumber > maxPostNumber {
				maxPostNumber = post.PostNumber
			}

			if _, ok := watched[post.Author.UID]; !ok {
				continue
			}
			if post.PostNumber > thread.LastSeenPostNumber {
				notify = append(notify, post)
			}
		}
	}

	if maxPostNumber < thread.LastSeenPostNumber {
		maxPostNumber = thread.LastSeenPostNumber
	}

	return maxPostNumber, notify
}
