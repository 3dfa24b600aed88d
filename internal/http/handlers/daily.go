package handlers

import (
	"errors"
	"net/http"
	"time"

	"card_arena/internal/logger"
	"card_arena/internal/service"

	"github.com/gin-gonic/gin"
)

// DailyClaim attempts the periodic reward claim for the player.
func (h *Handler) DailyClaim(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	res, err := h.Daily.Claim(c.Request.Context(), id, time.Now())
	if err != nil {
		var claimed *service.AlreadyClaimedError
		if errors.As(err, &claimed) {
			c.JSON(http.StatusConflict, gin.H{
				"error":             "already claimed",
				"remaining_seconds": int64(claimed.Remaining.Seconds()),
			})
			return
		}
		if errors.Is(err, service.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
			return
		}
		logger.Error("daily claim failed", "player_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "claim failed, retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"streak":      res.Streak,
		"reward":      res.Reward,
		"new_balance": res.NewBalance,
	})
}

// DailyStatus reports claim eligibility without mutating anything.
func (h *Handler) DailyStatus(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	st, err := h.Daily.Status(c.Request.Context(), id, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load status"})
		return
	}
	c.JSON(http.StatusOK, st)
}
