package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// History returns the player's recent ledger events, newest first.
func (h *Handler) History(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	events, err := h.Ledger.History(c.Request.Context(), id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Balance returns the ledger read model for the player.
func (h *Handler) Balance(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	balance, err := h.Ledger.GetBalance(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		return
	}
	spent, err := h.Ledger.TotalShardsSpent(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load spend totals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shards":             balance.Shards,
		"crystals":           balance.Crystals,
		"updated_at":         balance.UpdatedAt,
		"total_shards_spent": spent,
	})
}
