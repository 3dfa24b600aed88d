package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"card_arena/internal/leveling"
	"card_arena/internal/repository"

	"github.com/gin-gonic/gin"
)

// Me returns the authenticated player with balance counters.
func (h *Handler) Me(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	player, err := h.PlayerRepo.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		return
	}
	balance, err := h.PlayerRepo.GetBalance(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         player.ID,
		"tg_id":      player.TgID,
		"username":   player.Username,
		"first_name": player.FirstName,
		"avatar_url": player.AvatarURL,
		"created_at": player.CreatedAt,
		"shards":     balance.Shards,
		"crystals":   balance.Crystals,
	})
}

// MyProfile adds leveling and spend totals on top of Me.
func (h *Handler) MyProfile(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	h.renderProfile(c, id)
}

// Profile is the public view of another player.
func (h *Handler) Profile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}
	h.renderProfile(c, id)
}

func (h *Handler) renderProfile(c *gin.Context, id int64) {
	ctx := c.Request.Context()

	player, err := h.PlayerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load player"})
		return
	}

	balance, err := h.PlayerRepo.GetBalance(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load balance"})
		return
	}

	totalPower, err := h.PlayerRepo.TotalPower(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load power"})
		return
	}

	spent, err := h.Ledger.TotalShardsSpent(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load spend totals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                player.ID,
		"username":          player.Username,
		"first_name":        player.FirstName,
		"avatar_url":        player.AvatarURL,
		"created_at":        player.CreatedAt,
		"shards":            balance.Shards,
		"crystals":          balance.Crystals,
		"total_power":       totalPower,
		"leveling":          leveling.Compute(totalPower),
		"total_shards_spent": spent,
	})
}
