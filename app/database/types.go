package database

import (
	"time"
)

type Thread struct {
	TID        uint64
	Title      string
	AuthorName string
	AuthorUID  uint64
	TotalPosts uint64
	TotalPages uint64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Post struct {
	PID           uint64
	TID           uint64
	AuthorName    string
	AuthorUID     uint64
	PostDate      string
	PostTimestamp int64
	Content       string
	PostNumber    uint64
	Page          uint64
	CreatedAt     time.Time
}
