package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"card_arena/internal/domain"
	"card_arena/internal/logger"
	"card_arena/internal/service"

	"github.com/gin-gonic/gin"
)

// authorizeAdmin compares the bearer credential in constant time. An unset
// token rejects everything and is indistinguishable from a wrong token.
func (h *Handler) authorizeAdmin(c *gin.Context) bool {
	header := c.GetHeader("Authorization")
	supplied := strings.TrimPrefix(header, "Bearer ")

	expected := []byte(h.adminToken)
	match := subtle.ConstantTimeCompare([]byte(supplied), expected) == 1
	if len(expected) == 0 || !match {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false
	}
	return true
}

type adminGrantRequest struct {
	PlayerID  int64                  `json:"player_id" binding:"required"`
	Currency  string                 `json:"currency" binding:"required"`
	Direction string                 `json:"direction" binding:"required"`
	Amount    int64                  `json:"amount" binding:"required,min=1"`
	Reason    string                 `json:"reason"`
	Context   map[string]interface{} `json:"context"`
	IdemKey   string                 `json:"idem_key"`
}

// AdminGrant applies a privileged ledger delta.
func (h *Handler) AdminGrant(c *gin.Context) {
	if !h.authorizeAdmin(c) {
		return
	}

	var req adminGrantRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown currency"})
		return
	}
	direction, err := domain.ParseDirection(req.Direction)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown direction"})
		return
	}

	ctxMap := req.Context
	if ctxMap == nil {
		ctxMap = map[string]interface{}{}
	}
	if req.Reason != "" {
		ctxMap["reason"] = req.Reason
	}

	res, err := h.Ledger.Apply(c.Request.Context(), service.Delta{
		PlayerID:  req.PlayerID,
		Currency:  currency,
		Direction: direction,
		Amount:    req.Amount,
		Source:    "admin_grant",
		Context:   ctxMap,
		IdemKey:   req.IdemKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		case errors.Is(err, service.ErrInsufficientFunds):
			c.JSON(http.StatusConflict, gin.H{"error": "insufficient funds"})
		case errors.Is(err, service.ErrDuplicateApply):
			c.JSON(http.StatusConflict, gin.H{"error": "duplicate apply, retry the read"})
		default:
			logger.Error("admin grant failed", "player_id", req.PlayerID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "grant failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"new_balance": res.NewBalance,
		"event_id":    res.Event.ID,
		"replayed":    res.Replayed,
	})
}

type adminMatchRequest struct {
	PlayerID int64  `json:"player_id" binding:"required"`
	Mode     string `json:"mode" binding:"required"`
	MatchID  string `json:"match_id" binding:"required"`
}

// AdminMatch resolves a player's queued entry with a match reference.
func (h *Handler) AdminMatch(c *gin.Context) {
	if !h.authorizeAdmin(c) {
		return
	}

	var req adminMatchRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Queue.Match(c.Request.Context(), req.PlayerID, req.Mode, req.MatchID); err != nil {
		if errors.Is(err, service.ErrNotQueued) {
			c.JSON(http.StatusConflict, gin.H{"error": "player is not queued"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "match failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "matched", "match_id": req.MatchID})
}
