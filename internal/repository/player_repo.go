package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"card_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAccountNotFound = errors.New("account not found")

type PlayerRepository struct {
	db *pgxpool.Pool
}

func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

const playerColumns = `id, tg_id, username, first_name, avatar_url, created_at`

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	err := row.Scan(&p.ID, &p.TgID, &p.Username, &p.FirstName, &p.AvatarURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PlayerRepository) GetByTgID(ctx context.Context, tgID int64) (*domain.Player, error) {
	return scanPlayer(r.db.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE tg_id = $1`, tgID))
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*domain.Player, error) {
	return scanPlayer(r.db.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
}

// GetOrCreate returns the canonical player row for a Telegram identity,
// creating it together with a zero balance on first contact. The insert uses
// ON CONFLICT DO NOTHING and re-reads on conflict, so two concurrent first
// contacts for the same tg_id converge on a single row instead of surfacing
// a uniqueness violation.
func (r *PlayerRepository) GetOrCreate(ctx context.Context, tgID int64, username, firstName, avatarURL string) (*domain.Player, error) {
	if p, err := r.GetByTgID(ctx, tgID); err == nil {
		return p, nil
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}

	if username == "" && firstName == "" {
		username = defaultUsername(tgID)
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var playerID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO players (tg_id, username, first_name, avatar_url)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (tg_id) DO NOTHING
		 RETURNING id`,
		tgID, username, firstName, avatarURL,
	).Scan(&playerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// lost the race; the winner's row is the canonical one
			return r.GetByTgID(ctx, tgID)
		}
		return nil, err
	}

	// The balance is part of account creation: if this insert fails the
	// whole transaction rolls back and no player row becomes visible.
	if _, err := tx.Exec(ctx,
		`INSERT INTO balances (player_id) VALUES ($1)`, playerID,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, playerID)
}

// GetBalance returns the balance counters for a player.
func (r *PlayerRepository) GetBalance(ctx context.Context, playerID int64) (*domain.Balance, error) {
	var b domain.Balance
	err := r.db.QueryRow(ctx,
		`SELECT player_id, shards, crystals, updated_at FROM balances WHERE player_id = $1`,
		playerID,
	).Scan(&b.PlayerID, &b.Shards, &b.Crystals, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &b, nil
}

// TotalPower sums the power of all items held by a player. Item ownership
// lives in a collaborator system; this is the only read the core needs.
func (r *PlayerRepository) TotalPower(ctx context.Context, playerID int64) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(power), 0) FROM items WHERE player_id = $1`,
		playerID,
	).Scan(&total)
	return total, err
}

// PowerEntry is one leaderboard row before leveling is applied.
type PowerEntry struct {
	Player     domain.Player `json:"player"`
	TotalPower int64         `json:"total_power"`
}

// GetTopByPower returns players ordered by total item power.
func (r *PlayerRepository) GetTopByPower(ctx context.Context, limit int) ([]PowerEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.tg_id, p.username, p.first_name, p.avatar_url, p.created_at,
		       COALESCE(SUM(i.power), 0) AS total_power
		FROM players p
		LEFT JOIN items i ON i.player_id = p.id
		GROUP BY p.id
		ORDER BY total_power DESC, p.id
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []PowerEntry
	for rows.Next() {
		var e PowerEntry
		if err := rows.Scan(&e.Player.ID, &e.Player.TgID, &e.Player.Username,
			&e.Player.FirstName, &e.Player.AvatarURL, &e.Player.CreatedAt,
			&e.TotalPower); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// GetPowerRank returns a player's rank by total power along with the power value.
func (r *PlayerRepository) GetPowerRank(ctx context.Context, playerID int64) (int, int64, error) {
	var rank int
	var power int64
	err := r.db.QueryRow(ctx, `
		WITH totals AS (
			SELECT p.id, COALESCE(SUM(i.power), 0) AS total_power
			FROM players p
			LEFT JOIN items i ON i.player_id = p.id
			GROUP BY p.id
		),
		ranked AS (
			SELECT id, total_power,
			       RANK() OVER (ORDER BY total_power DESC) AS rank
			FROM totals
		)
		SELECT rank, total_power FROM ranked WHERE id = $1`,
		playerID,
	).Scan(&rank, &power)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, ErrAccountNotFound
		}
		return 0, 0, err
	}
	return rank, power, nil
}

func defaultUsername(tgID int64) string {
	s := strconv.FormatInt(tgID, 10)
	if len(s) > 4 {
		s = s[len(s)-4:]
	}
	return fmt.Sprintf("player_%s", s)
}
