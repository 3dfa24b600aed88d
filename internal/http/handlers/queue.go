package handlers

import (
	"errors"
	"net/http"

	"card_arena/internal/service"

	"github.com/gin-gonic/gin"
)

type queueRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// QueueJoin puts the player into the matchmaking queue for a mode.
func (h *Handler) QueueJoin(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req queueRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode is required"})
		return
	}

	entry, err := h.Queue.Enqueue(c.Request.Context(), id, req.Mode)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyQueued) {
			c.JSON(http.StatusConflict, gin.H{"error": "already queued"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join queue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    entry.Status,
		"mode":      entry.Mode,
		"joined_at": entry.JoinedAt,
	})
}

// QueueCancel withdraws the player's active queue entry.
func (h *Handler) QueueCancel(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req queueRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode is required"})
		return
	}

	if err := h.Queue.Cancel(c.Request.Context(), id, req.Mode); err != nil {
		if errors.Is(err, service.ErrNotQueued) {
			c.JSON(http.StatusConflict, gin.H{"error": "not queued"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cancelled", "mode": req.Mode})
}

// QueueStatus reports the player's current queue state for a mode.
func (h *Handler) QueueStatus(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	mode := c.Query("mode")
	if mode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode is required"})
		return
	}

	view, err := h.Queue.Status(c.Request.Context(), id, mode)
	if err != nil {
		// includes corrupt stored status values; never pass those through
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load queue status"})
		return
	}
	c.JSON(http.StatusOK, view)
}
