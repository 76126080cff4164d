package database

import (
	"database/sql"
	"fmt"
)

// ThreadRepository handles database operations for archived threads
type ThreadRepository struct {
	db *DB
}

func NewThreadRepository(db *DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

// UpsertThread inserts or refreshes a thread's metadata
func (r *ThreadRepository) UpsertThread(thread Thread) error {
	_, err := r.db.Exec(`
		INSERT INTO threads (tid, title, author_name, author_uid, total_posts, total_pages)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(tid) DO UPDATE SET
			title = excluded.title,
			author_name = excluded.author_name,
			author_uid = excluded.author_uid,
			total_posts = excluded.total_posts,
			total_pages = excluded.total_pages,
			updated_at = datetime('now', 'localtime')
	`, thread.TID, thread.Title, thread.AuthorName, thread.AuthorUID,
		thread.TotalPosts, thread.TotalPages)

	if err != nil {
		return fmt.Errorf("failed to upsert thread: %w", err)
	}

	return nil
}

// GetThread retrieves archived thread metadata, or nil when unknown
func (r *ThreadRepository) GetThread(tid uint64) (*Thread, error) {
	var thread Thread
	err := r.db.QueryRow(`
		SELECT tid, title, author_name, author_uid, total_posts, total_pages, created_at, updated_at
		FROM threads
		WHERE tid = ?
	`, tid).Scan(
		&thread.TID, &thread.Title, &thread.AuthorName, &thread.AuthorUID,
		&thread.TotalPosts, &thread.TotalPages, &thread.CreatedAt, &thread.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}

	return &thread, nil
}

func (r *ThreadRepository) GetThreadCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM threads`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count threads: %w", err)
	}
	return count, nil
}
