package database

import (
	"github.com/lysyi3m/nga-monitor/app/crawler"
)

// Archive adapts the repositories to the monitor's archiving hooks,
// translating fetched pages into archive rows.
type Archive struct {
	threads *ThreadRepository
	posts   *PostRepository
}

func NewArchive(db *DB) *Archive {
	return &Archive{
		threads: NewThreadRepository(db),
		posts:   NewPostRepository(db),
	}
}

func (a *Archive) SaveThreadPage(page *crawler.Page) error {
	return a.threads.UpsertThread(Thread{
		TID:        page.TID,
		Title:      page.Title,
		AuthorName: page.AuthorName,
		AuthorUID:  page.AuthorUID,
		TotalPosts: page.TotalPosts,
		TotalPages: page.TotalPages,
	})
}

func (a *Archive) SavePosts(posts []crawler.Post) error {
	rows := make([]Post, 0, len(posts))
	for _, post := range posts {
		rows = append(rows, Post{
			PID:           post.PID,
			TID:           post.TID,
			AuthorName:    post.Author.Name,
			AuthorUID:     post.Author.UID,
			PostDate:      post.PostDate,
			PostTimestamp: post.PostTimestamp,
			Content:       post.Content,
			PostNumber:    post.PostNumber,
			Page:          post.Page,
		})
	}

	return a.posts.SavePosts(rows)
}

func (a *Archive) RecentPosts(tid uint64, limit int) ([]Post, error) {
	return a.posts.GetRecentPosts(tid, limit)
}

func (a *Archive) Thread(tid uint64) (*Thread, error) {
	return a.threads.GetThread(tid)
}

func (a *Archive) PostCount() (int, error) {
	return a.posts.GetPostCount()
}
