package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultRecentPostLimit = 20

func NewHandler(store ConfigStore, archive ArchiveReader) *Handler {
	return &Handler{
		store:   store,
		archive: archive,
	}
}

// UpdatePassport replaces the crawler session credentials. This endpoint is
// the only external mutator of credentials besides the config file itself.
func (h *Handler) UpdatePassport(c *gin.Context) {
	var req UpdatePassportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
		})
		return
	}

	if err := h.store.UpdatePassport(req.CID, req.UID); err != nil {
		slog.Error("Failed to update passport", "error", err)
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Error:   "Failed to update passport: " + err.Error(),
		})
		return
	}

	slog.Info("Passport credentials updated")
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Passport updated successfully",
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	monitorConfig := h.store.MonitorConfig()
	enabled := 0
	for _, thread := range monitorConfig.MonitoredThreads {
		if thread.Enabled {
			enabled++
		}
	}
	health["monitored_threads"] = len(monitorConfig.MonitoredThreads)
	health["enabled_threads"] = enabled

	if h.archive != nil {
		if count, err := h.archive.PostCount(); err == nil {
			health["archived_posts"] = count
		}
	}

	c.JSON(http.StatusOK, health)
}

// APIGetThreadPosts returns the newest archived posts of a thread.
func (h *Handler) APIGetThreadPosts(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Archive is disabled"})
		return
	}

	tid, err := strconv.ParseUint(c.Param("tid"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid thread id"})
		return
	}

	limit := defaultRecentPostLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	thread, err := h.archive.Thread(tid)
	if err != nil {
		slog.Error("Database error", "operation", "get_thread", "tid", tid, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if thread == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found in archive"})
		return
	}

	posts, err := h.archive.RecentPosts(tid, limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_posts", "tid", tid, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	items := make([]map[string]interface{}, 0, len(posts))
	for _, post := range posts {
		items = append(items, map[string]interface{}{
			"pid":            post.PID,
			"author_name":    post.AuthorName,
			"author_uid":     post.AuthorUID,
			"post_date":      post.PostDate,
			"post_timestamp": post.PostTimestamp,
			"post_number":    post.PostNumber,
			"page":           post.Page,
			"content":        post.Content,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"tid":         tid,
		"title":       thread.Title,
		"total_pages": thread.TotalPages,
		"posts":       items,
		"count":       len(items),
	})
}
