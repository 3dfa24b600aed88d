package repository

import (
	"context"
	"errors"
	"time"

	"card_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DailyRewardRepository struct {
	db *pgxpool.Pool
}

func NewDailyRewardRepository(db *pgxpool.Pool) *DailyRewardRepository {
	return &DailyRewardRepository{db: db}
}

// GetForUpdateWithTx reads and row-locks the claim state inside the caller's
// transaction. Returns nil (no error) when the player has never claimed.
func (r *DailyRewardRepository) GetForUpdateWithTx(ctx context.Context, dbTx pgx.Tx, playerID int64) (*domain.DailyRewardState, error) {
	var s domain.DailyRewardState
	err := dbTx.QueryRow(ctx,
		`SELECT player_id, last_claim, streak FROM daily_rewards WHERE player_id = $1 FOR UPDATE`,
		playerID,
	).Scan(&s.PlayerID, &s.LastClaim, &s.Streak)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// InsertFirstWithTx records the very first claim. Returns false when a
// concurrent claim created the row first; the caller must re-read and
// re-decide instead of crediting twice.
func (r *DailyRewardRepository) InsertFirstWithTx(ctx context.Context, dbTx pgx.Tx, playerID int64, now time.Time) (bool, error) {
	tag, err := dbTx.Exec(ctx,
		`INSERT INTO daily_rewards (player_id, last_claim, streak)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (player_id) DO NOTHING`,
		playerID, now,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateWithTx advances the claim state after an eligible claim.
func (r *DailyRewardRepository) UpdateWithTx(ctx context.Context, dbTx pgx.Tx, playerID int64, now time.Time, streak int) error {
	_, err := dbTx.Exec(ctx,
		`UPDATE daily_rewards SET last_claim = $1, streak = $2 WHERE player_id = $3`,
		now, streak, playerID,
	)
	return err
}

// Get returns the claim state without locking, for status reads.
// Returns nil when the player has never claimed.
func (r *DailyRewardRepository) Get(ctx context.Context, playerID int64) (*domain.DailyRewardState, error) {
	var s domain.DailyRewardState
	err := r.db.QueryRow(ctx,
		`SELECT player_id, last_claim, streak FROM daily_rewards WHERE player_id = $1`,
		playerID,
	).Scan(&s.PlayerID, &s.LastClaim, &s.Streak)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
