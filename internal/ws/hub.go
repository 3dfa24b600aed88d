// Package ws pushes queue-status transitions to connected players. The hub
// is purely a fan-out: all state lives in the store, so a missed message
// only delays the client until its next status poll.
package ws

import (
	"encoding/json"
	"sync"

	"card_arena/internal/domain"
	"card_arena/internal/logger"
)

// QueueUpdateMessage is the wire format for a pushed status transition.
type QueueUpdateMessage struct {
	Type    string             `json:"type"`
	Mode    string             `json:"mode"`
	Status  domain.QueueStatus `json:"status"`
	MatchID string             `json:"match_id,omitempty"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.PlayerID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.PlayerID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.PlayerID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.PlayerID)
	}
}

// QueueUpdate implements service.QueueNotifier.
func (h *Hub) QueueUpdate(playerID int64, mode string, status domain.QueueStatus, matchID string) {
	payload, err := json.Marshal(QueueUpdateMessage{
		Type:    "queue_update",
		Mode:    mode,
		Status:  status,
		MatchID: matchID,
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[playerID] {
		select {
		case c.send <- payload:
		default:
			// slow consumer; drop rather than block the caller
			logger.Warn("dropping queue update for slow client", "player_id", playerID)
		}
	}
}
