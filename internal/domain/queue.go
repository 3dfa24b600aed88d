package domain

import (
	"fmt"
	"time"
)

// QueueStatus is the closed set of matchmaking entry states. Anything else
// read back from the store is a data-integrity error, not a pass-through.
type QueueStatus string

const (
	QueueIdle      QueueStatus = "idle" // no entry; never persisted
	QueueQueued    QueueStatus = "queued"
	QueueMatched   QueueStatus = "matched"
	QueueCancelled QueueStatus = "cancelled"
)

// ParseQueueStatus validates a persisted status value.
func ParseQueueStatus(s string) (QueueStatus, error) {
	switch QueueStatus(s) {
	case QueueQueued, QueueMatched, QueueCancelled:
		return QueueStatus(s), nil
	}
	return "", fmt.Errorf("corrupt queue status %q", s)
}

// QueueEntry is one matchmaking request for a (player, mode) pair.
// At most one entry per pair may be in the queued state at a time.
type QueueEntry struct {
	ID        int64       `db:"id" json:"id"`
	PlayerID  int64       `db:"player_id" json:"player_id"`
	Mode      string      `db:"mode" json:"mode"`
	Status    QueueStatus `db:"status" json:"status"`
	MatchID   string      `db:"match_id" json:"match_id,omitempty"`
	JoinedAt  time.Time   `db:"joined_at" json:"joined_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}
