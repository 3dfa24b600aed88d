package service

import (
	"context"
	"errors"

	"card_arena/internal/domain"
	"card_arena/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrDuplicateApply    = errors.New("duplicate ledger apply")
	ErrAccountNotFound   = repository.ErrAccountNotFound
)

// Delta describes one requested balance mutation. IdemKey, when set, makes
// the call safe to retry: a second apply with the same key returns the
// originally recorded event instead of moving the balance again.
type Delta struct {
	PlayerID  int64
	Currency  domain.Currency
	Direction domain.Direction
	Amount    int64 // positive magnitude
	Source    string
	Context   map[string]interface{}
	IdemKey   string
}

// Result is the outcome of an applied delta.
type Result struct {
	NewBalance int64                 `json:"new_balance"`
	Event      *domain.CurrencyEvent `json:"event"`
	Replayed   bool                  `json:"-"`
}

// LedgerService is the only sanctioned path for changing a balance counter.
// Every apply writes the balance update and the event row in one database
// transaction; a concurrent reader never observes one without the other.
type LedgerService struct {
	db        *pgxpool.Pool
	eventRepo *repository.CurrencyEventRepository
}

func NewLedgerService(db *pgxpool.Pool) *LedgerService {
	return &LedgerService{
		db:        db,
		eventRepo: repository.NewCurrencyEventRepository(db),
	}
}

// Apply mutates one balance counter and appends the matching event.
func (s *LedgerService) Apply(ctx context.Context, d Delta) (*Result, error) {
	if d.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := s.ApplyWithTx(ctx, tx, d)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	ledgerApplies.WithLabelValues(string(d.Currency), string(d.Direction)).Inc()
	return res, nil
}

// ApplyWithTx runs the delta inside an existing transaction so callers (the
// daily reward claim) can make the credit and their own writes atomic.
func (s *LedgerService) ApplyWithTx(ctx context.Context, tx pgx.Tx, d Delta) (*Result, error) {
	if d.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	// Row lock serializes concurrent deltas on the same account, which is
	// what keeps balance == fold(events) under concurrent spenders.
	var balance int64
	column := balanceColumn(d.Currency)
	err := tx.QueryRow(ctx,
		`SELECT `+column+` FROM balances WHERE player_id = $1 FOR UPDATE`,
		d.PlayerID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if d.IdemKey != "" {
		if prior, err := s.eventRepo.GetByIdemKeyWithTx(ctx, tx, d.PlayerID, d.IdemKey); err == nil {
			return &Result{NewBalance: prior.BalanceAfter, Event: prior, Replayed: true}, nil
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	newBalance := balance + d.Amount
	if d.Direction == domain.DirectionSpend {
		if d.Amount > balance {
			return nil, ErrInsufficientFunds
		}
		newBalance = balance - d.Amount
	}

	if err := tx.QueryRow(ctx,
		`UPDATE balances SET `+column+` = $1, updated_at = now()
		 WHERE player_id = $2
		 RETURNING `+column,
		newBalance, d.PlayerID,
	).Scan(&newBalance); err != nil {
		return nil, err
	}

	event := &domain.CurrencyEvent{
		PlayerID:     d.PlayerID,
		Currency:     d.Currency,
		Direction:    d.Direction,
		Amount:       d.Amount,
		BalanceAfter: newBalance,
		Source:       d.Source,
		Context:      d.Context,
		IdemKey:      d.IdemKey,
	}
	if err := s.eventRepo.CreateWithTx(ctx, tx, event); err != nil {
		// A duplicate idem_key here means a retried request raced past the
		// lookup above in another session; report it as a replay conflict so
		// the caller retries the read, never as a double apply.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateApply
		}
		return nil, err
	}

	return &Result{NewBalance: newBalance, Event: event}, nil
}

// GetBalance returns both counters for a player.
func (s *LedgerService) GetBalance(ctx context.Context, playerID int64) (*domain.Balance, error) {
	var b domain.Balance
	err := s.db.QueryRow(ctx,
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

// TotalShardsSpent folds the soft-currency spend events for reporting views.
func (s *LedgerService) TotalShardsSpent(ctx context.Context, playerID int64) (int64, error) {
	return s.eventRepo.TotalSpent(ctx, playerID, domain.CurrencyShards)
}

// History returns recent ledger events for a player.
func (s *LedgerService) History(ctx context.Context, playerID int64, limit int) ([]*domain.CurrencyEvent, error) {
	return s.eventRepo.GetByPlayer(ctx, playerID, limit)
}

func balanceColumn(c domain.Currency) string {
	if c == domain.CurrencyCrystals {
		return "crystals"
	}
	return "shards"
}
