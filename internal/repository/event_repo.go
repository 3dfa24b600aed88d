package repository

import (
	"context"
	"encoding/json"

	"card_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CurrencyEventRepository struct {
	db *pgxpool.Pool
}

func NewCurrencyEventRepository(db *pgxpool.Pool) *CurrencyEventRepository {
	return &CurrencyEventRepository{db: db}
}

const eventColumns = `id, player_id, currency, direction, amount, balance_after,
	source, context, COALESCE(idem_key, ''), created_at`

// CreateWithTx appends an event inside an existing ledger transaction.
// Events are insert-only; there is no update or delete path.
func (r *CurrencyEventRepository) CreateWithTx(ctx context.Context, dbTx pgx.Tx, e *domain.CurrencyEvent) error {
	contextJSON, err := json.Marshal(e.Context)
	if err != nil {
		contextJSON = []byte("{}")
	}

	var idemKey interface{}
	if e.IdemKey != "" {
		idemKey = e.IdemKey
	}

	return dbTx.QueryRow(ctx,
		`INSERT INTO currency_events (player_id, currency, direction, amount, balance_after, source, context, idem_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		e.PlayerID, e.Currency, e.Direction, e.Amount, e.BalanceAfter, e.Source, contextJSON, idemKey,
	).Scan(&e.ID, &e.CreatedAt)
}

// GetByIdemKeyWithTx looks up a previously applied event by its
// deduplication key, using the caller's transaction.
func (r *CurrencyEventRepository) GetByIdemKeyWithTx(ctx context.Context, dbTx pgx.Tx, playerID int64, idemKey string) (*domain.CurrencyEvent, error) {
	return scanEvent(dbTx.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM currency_events
		 WHERE player_id = $1 AND idem_key = $2`,
		playerID, idemKey))
}

// GetByPlayer returns recent events for a player, newest first.
func (r *CurrencyEventRepository) GetByPlayer(ctx context.Context, playerID int64, limit int) ([]*domain.CurrencyEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+` FROM currency_events
		 WHERE player_id = $1
		 ORDER BY id DESC
		 LIMIT $2`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.CurrencyEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// SumSigned folds all events of one currency for a player. The result must
// always equal the stored balance counter; reconciliation jobs and tests
// rely on that.
func (r *CurrencyEventRepository) SumSigned(ctx context.Context, playerID int64, currency domain.Currency) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(CASE WHEN direction = 'spend' THEN -amount ELSE amount END), 0)
		 FROM currency_events
		 WHERE player_id = $1 AND currency = $2`,
		playerID, currency,
	).Scan(&sum)
	return sum, err
}

// TotalSpent returns the sum of spend magnitudes for one currency. Exposed
// to reporting collaborators; computed from events, never stored.
func (r *CurrencyEventRepository) TotalSpent(ctx context.Context, playerID int64, currency domain.Currency) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)
		 FROM currency_events
		 WHERE player_id = $1 AND currency = $2 AND direction = 'spend'`,
		playerID, currency,
	).Scan(&total)
	return total, err
}

func scanEvent(row pgx.Row) (*domain.CurrencyEvent, error) {
	var (
		e           domain.CurrencyEvent
		currency    string
		direction   string
		contextJSON []byte
	)
	if err := row.Scan(&e.ID, &e.PlayerID, &currency, &direction, &e.Amount,
		&e.BalanceAfter, &e.Source, &contextJSON, &e.IdemKey, &e.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if e.Currency, err = domain.ParseCurrency(currency); err != nil {
		return nil, err
	}
	if e.Direction, err = domain.ParseDirection(direction); err != nil {
		return nil, err
	}
	if len(contextJSON) > 0 {
		_ = json.Unmarshal(contextJSON, &e.Context)
	}
	return &e, nil
}
