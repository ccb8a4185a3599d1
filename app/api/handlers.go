package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akardan/newsbrief/app/news"
	"github.com/akardan/newsbrief/app/store"
	"github.com/akardan/newsbrief/app/tasks"
)

func NewHandler(st StoreInterface, runner TriggerInterface, sourceCount int) *Handler {
	return &Handler{
		store:       st,
		runner:      runner,
		sourceCount: sourceCount,
	}
}

// GetNews serves the currently persisted collection and metadata. This is
// the primary client read path: no acquisition, no upstream calls, no
// locking.
func (h *Handler) GetNews(c *gin.Context) {
	items, err := h.store.LoadCollection(c.Request.Context())
	if err != nil {
		slog.Error("Failed to load collection", "error", err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "store unavailable"})
		return
	}

	if items == nil {
		items = []news.Item{}
	}

	resp := NewsResponse{
		Success: true,
		Count:   len(items),
		Items:   items,
	}

	// Metadata is best effort on the read path; a missing record must not
	// hide an available collection.
	if meta, err := h.store.LoadMetadata(c.Request.Context()); err == nil && meta != nil {
		resp.LastTriggerAt = &meta.LastTriggerAt
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh is the manual acquisition trigger. Partial source failures still
// produce a success response; only total pipeline failure is an error.
func (h *Handler) Refresh(c *gin.Context) {
	result, err := h.runner.Run(c.Request.Context(), tasks.TriggerManual)
	if err != nil {
		switch {
		case errors.Is(err, tasks.ErrRunInProgress):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "acquisition run already in progress"})
		case errors.Is(err, store.ErrUnavailable):
			slog.Error("Manual trigger failed, store unavailable", "error", err)
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "store unavailable"})
		default:
			slog.Error("Manual trigger failed", "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{
		Success:   true,
		Count:     result.Count,
		Timestamp: result.Timestamp,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"sources":   h.sourceCount,
	}

	if err := h.store.Ping(c.Request.Context()); err != nil {
		health["status"] = "degraded"
		health["store"] = "unavailable"
		c.JSON(http.StatusOK, health)
		return
	}

	health["status"] = "ok"
	if meta, err := h.store.LoadMetadata(c.Request.Context()); err == nil && meta != nil {
		health["last_fetch_at"] = meta.LastFetchAt.Format(time.RFC3339)
		health["total_items"] = meta.TotalItems
	}

	c.JSON(http.StatusOK, health)
}
