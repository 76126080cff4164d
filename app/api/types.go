package api

import (
	"github.com/lysyi3m/nga-monitor/app/config"
	"github.com/lysyi3m/nga-monitor/app/database"
)

// ConfigStore is the slice of the config holder the admin surface needs.
type ConfigStore interface {
	MonitorConfig() config.MonitorConfig
	UpdatePassport(cid, uid string) error
}

var _ ConfigStore = (*config.Holder)(nil)

// ArchiveReader exposes archived thread data. Nil when archiving is disabled.
type ArchiveReader interface {
	Thread(tid uint64) (*database.Thread, error)
	RecentPosts(tid uint64, limit int) ([]database.Post, error)
	PostCount() (int, error)
}

var _ ArchiveReader = (*database.Archive)(nil)

type Handler struct {
	store   ConfigStore
	archive ArchiveReader
}

type UpdatePassportRequest struct {
	CID string `json:"cid" binding:"required"`
	UID string `json:"uid" binding:"required"`
}

// APIResponse is the envelope returned by every admin endpoint.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
