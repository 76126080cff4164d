package database

import (
	"fmt"
)

// PostRepository handles database operations for archived posts
type PostRepository struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db}
}

// SavePosts batch-upserts a page worth of posts inside one transaction.
// Re-archiving a page that was already seen is a no-op content-wise.
func (r *PostRepository) SavePosts(posts []Post) error {
	if len(posts) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO posts (pid, tid, author_name, author_uid, post_date, post_timestamp, content, post_number, page)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(pid) DO UPDATE SET
			content = excluded.content,
			post_number = excluded.post_number,
			page = excluded.page
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, post := range posts {
		if _, err := stmt.Exec(post.PID, post.TID, post.AuthorName, post.AuthorUID,
			post.PostDate, post.PostTimestamp, post.Content, post.PostNumber, post.Page); err != nil {
			return fmt.Errorf("failed to save post %d: %w", post.PID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit posts: %w", err)
	}

	return nil
}

// GetRecentPosts returns the newest archived posts of a thread, most recent first
func (r *PostRepository) GetRecentPosts(tid uint64, limit int) ([]Post, error) {
	rows, err := r.db.Query(`
		SELECT pid, tid, author_name, author_uid, post_date, post_timestamp,
		       COALESCE(content, ''), post_number, page, created_at
		FROM posts
		WHERE tid = ?
		ORDER BY post_number DESC
		LIMIT ?
	`, tid, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		err := rows.Scan(
			&post.PID, &post.TID, &post.AuthorName, &post.AuthorUID,
			&post.PostDate, &post.PostTimestamp, &post.Content,
			&post.PostNumber, &post.Page, &post.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

func (r *PostRepository) GetPostCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}
