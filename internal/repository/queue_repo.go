package repository

import (
	"context"
	"errors"

	"card_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAlreadyQueued = errors.New("already queued for this mode")
	ErrNotQueued     = errors.New("no active queue entry")
)

type QueueRepository struct {
	db *pgxpool.Pool
}

func NewQueueRepository(db *pgxpool.Pool) *QueueRepository {
	return &QueueRepository{db: db}
}

// GetLatest returns the most recently updated entry for a (player, mode)
// pair, or nil when the player has never queued for that mode.
func (r *QueueRepository) GetLatest(ctx context.Context, playerID int64, mode string) (*domain.QueueEntry, error) {
	var (
		e       domain.QueueEntry
		status  string
		matchID *string
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, player_id, mode, status, match_id, joined_at, updated_at
		 FROM queue_entries
		 WHERE player_id = $1 AND mode = $2
		 ORDER BY updated_at DESC, id DESC
		 LIMIT 1`,
		playerID, mode,
	).Scan(&e.ID, &e.PlayerID, &e.Mode, &status, &matchID, &e.JoinedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	// Persisted statuses are a closed vocabulary; anything else means the
	// row was written outside the state machine.
	if e.Status, err = domain.ParseQueueStatus(status); err != nil {
		return nil, err
	}
	if matchID != nil {
		e.MatchID = *matchID
	}
	return &e, nil
}

// Insert creates a fresh queued entry. A partial unique index on
// (player_id, mode) WHERE status = 'queued' guarantees at most one active
// entry per pair; a conflict maps to ErrAlreadyQueued.
func (r *QueueRepository) Insert(ctx context.Context, playerID int64, mode string) (*domain.QueueEntry, error) {
	e := &domain.QueueEntry{PlayerID: playerID, Mode: mode, Status: domain.QueueQueued}
	err := r.db.QueryRow(ctx,
		`INSERT INTO queue_entries (player_id, mode, status)
		 VALUES ($1, $2, 'queued')
		 RETURNING id, joined_at, updated_at`,
		playerID, mode,
	).Scan(&e.ID, &e.JoinedAt, &e.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyQueued
		}
		return nil, err
	}
	return e, nil
}

// Cancel transitions the player's active entry to cancelled.
func (r *QueueRepository) Cancel(ctx context.Context, playerID int64, mode string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE queue_entries
		 SET status = 'cancelled', updated_at = now()
		 WHERE player_id = $1 AND mode = $2 AND status = 'queued'`,
		playerID, mode,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotQueued
	}
	return nil
}

// Match resolves the player's active entry with a match reference. The
// status guard makes the transition race-safe: only one matcher wins.
func (r *QueueRepository) Match(ctx context.Context, playerID int64, mode, matchID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE queue_entries
		 SET status = 'matched', match_id = $1, updated_at = now()
		 WHERE player_id = $2 AND mode = $3 AND status = 'queued'`,
		matchID, playerID, mode,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotQueued
	}
	return nil
}
