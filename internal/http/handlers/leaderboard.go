package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"card_arena/internal/cache"
	"card_arena/internal/leveling"
	"card_arena/internal/repository"

	"github.com/gin-gonic/gin"
)

// leaderboardCache is shared across handlers; set once at startup.
var leaderboardCache *cache.LeaderboardCache

// InitLeaderboardCache installs the Redis-backed cache for leaderboard reads.
func InitLeaderboardCache(c *cache.LeaderboardCache) {
	leaderboardCache = c
}

type leaderboardEntry struct {
	Rank       int               `json:"rank"`
	ID         int64             `json:"id"`
	Username   string            `json:"username"`
	FirstName  string            `json:"first_name"`
	AvatarURL  string            `json:"avatar_url,omitempty"`
	TotalPower int64             `json:"total_power"`
	Leveling   leveling.Progress `json:"leveling"`
}

// Leaderboard returns the top players by total power, with the shared
// leveling function applied to each row.
func (h *Handler) Leaderboard(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	ctx := c.Request.Context()
	cacheKey := fmt.Sprintf("leaderboard:power:%d", limit)

	if leaderboardCache != nil {
		if raw := leaderboardCache.Get(ctx, cacheKey); raw != nil {
			c.Data(http.StatusOK, "application/json", raw)
			return
		}
	}

	top, err := h.PlayerRepo.GetTopByPower(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}

	entries := make([]leaderboardEntry, 0, len(top))
	for i, row := range top {
		entries = append(entries, leaderboardEntry{
			Rank:       i + 1,
			ID:         row.Player.ID,
			Username:   row.Player.Username,
			FirstName:  row.Player.FirstName,
			AvatarURL:  row.Player.AvatarURL,
			TotalPower: row.TotalPower,
			Leveling:   leveling.Compute(row.TotalPower),
		})
	}

	payload, err := json.Marshal(gin.H{"entries": entries})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode leaderboard"})
		return
	}
	if leaderboardCache != nil {
		leaderboardCache.Set(ctx, cacheKey, payload)
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// MyRank returns the authenticated player's power rank and level.
func (h *Handler) MyRank(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	rank, power, err := h.PlayerRepo.GetPowerRank(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rank"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rank":        rank,
		"total_power": power,
		"leveling":    leveling.Compute(power),
	})
}
