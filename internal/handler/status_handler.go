package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"buzzmap/db"
)

type StatsStore interface {
	CountInstagramPosts() (int64, error)
	CountYoutubeVideos() (int64, error)
	CountCandidates() (int64, error)
	CountPlaces() (int64, error)
}

type FeedLengther interface {
	Len(ctx context.Context, key string) (int64, error)
}

// StatusHandler exposes pipeline state: how many rows each store holds and
// how many change batches are waiting on each feed.
type StatusHandler struct {
	stats StatsStore
	feed  FeedLengther
}

func NewStatusHandler(stats StatsStore, feed FeedLengther) *StatusHandler {
	return &StatusHandler{stats: stats, feed: feed}
}

func (h *StatusHandler) GetStatus(c *gin.Context) {
	var res StatusResponse
	var err error

	res.Instagram.Stored, err = h.stats.CountInstagramPosts()
	if err == nil {
		res.Youtube.Stored, err = h.stats.CountYoutubeVideos()
	}
	if err == nil {
		res.Candidates.Stored, err = h.stats.CountCandidates()
	}
	if err == nil {
		res.Places, err = h.stats.CountPlaces()
	}
	if err != nil {
		slog.Error("error counting store rows", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	ctx := c.Request.Context()
	res.Instagram.Queued, err = h.feed.Len(ctx, db.FeedKeyInstagram)
	if err == nil {
		res.Youtube.Queued, err = h.feed.Len(ctx, db.FeedKeyYoutube)
	}
	if err == nil {
		res.Candidates.Queued, err = h.feed.Len(ctx, db.FeedKeyCandidate)
	}
	if err != nil {
		slog.Error("error reading feed length", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Feed error"})
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *StatusHandler) GetHealth(c *gin.Context) {
	_, err := h.stats.CountPlaces()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}
