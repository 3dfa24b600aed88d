package service

import (
	"context"
	"fmt"
	"time"

	"card_arena/internal/domain"
	"card_arena/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	dailyCooldown    = 24 * time.Hour
	dailyStreakGrace = 48 * time.Hour
	dailySource      = "daily_reward"
)

// AlreadyClaimedError reports a claim inside the cooldown window along with
// how long the player must wait.
type AlreadyClaimedError struct {
	Remaining time.Duration
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("already claimed, eligible in %s", e.Remaining.Round(time.Second))
}

// ClaimDecision is the outcome of the pure transition rule, before any
// store writes happen.
type ClaimDecision struct {
	Eligible  bool
	Streak    int
	Remaining time.Duration
}

// DecideClaim applies the cooldown/streak transition rule:
// no prior state -> streak 1; under 24h -> rejected with remaining time;
// 24h..48h -> streak continues; over 48h -> streak resets to 1.
func DecideClaim(prev *domain.DailyRewardState, now time.Time) ClaimDecision {
	if prev == nil {
		return ClaimDecision{Eligible: true, Streak: 1}
	}

	since := now.Sub(prev.LastClaim)
	switch {
	case since < dailyCooldown:
		return ClaimDecision{Remaining: dailyCooldown - since}
	case since <= dailyStreakGrace:
		return ClaimDecision{Eligible: true, Streak: prev.Streak + 1}
	default:
		return ClaimDecision{Eligible: true, Streak: 1}
	}
}

// ClaimResult is returned to the handler after a successful claim.
type ClaimResult struct {
	Streak     int   `json:"streak"`
	Reward     int64 `json:"reward"`
	NewBalance int64 `json:"new_balance"`
}

// DailyStatus is the non-mutating eligibility view.
type DailyStatus struct {
	Eligible         bool  `json:"eligible"`
	Streak           int   `json:"streak"`
	NextStreak       int   `json:"next_streak"`
	RemainingSeconds int64 `json:"remaining_seconds"`
}

// DailyRewardService wraps the ledger with the cooldown/streak state
// machine. The ledger credit and the state write share one transaction, so
// a claim either fully applies or is fully rejected and retryable.
type DailyRewardService struct {
	db        *pgxpool.Pool
	ledger    *LedgerService
	dailyRepo *repository.DailyRewardRepository
	reward    int64
}

func NewDailyRewardService(db *pgxpool.Pool, ledger *LedgerService, reward int64) *DailyRewardService {
	return &DailyRewardService{
		db:        db,
		ledger:    ledger,
		dailyRepo: repository.NewDailyRewardRepository(db),
		reward:    reward,
	}
}

// Claim attempts a daily reward claim at the given time.
func (s *DailyRewardService) Claim(ctx context.Context, playerID int64, now time.Time) (*ClaimResult, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	prev, err := s.dailyRepo.GetForUpdateWithTx(ctx, tx, playerID)
	if err != nil {
		return nil, err
	}

	if prev == nil {
		// First claim: the conditional insert decides the race. The loser
		// blocks on the winner's insert, then re-reads and lands in the
		// cooldown branch instead of crediting twice.
		inserted, err := s.dailyRepo.InsertFirstWithTx(ctx, tx, playerID, now)
		if err != nil {
			return nil, err
		}
		if !inserted {
			if prev, err = s.dailyRepo.GetForUpdateWithTx(ctx, tx, playerID); err != nil {
				return nil, err
			}
		}
	}

	decision := DecideClaim(prev, now)
	if !decision.Eligible {
		dailyClaims.WithLabelValues("rejected").Inc()
		return nil, &AlreadyClaimedError{Remaining: decision.Remaining}
	}

	res, err := s.ledger.ApplyWithTx(ctx, tx, Delta{
		PlayerID:  playerID,
		Currency:  domain.CurrencyShards,
		Direction: domain.DirectionEarn,
		Amount:    s.reward,
		Source:    dailySource,
		Context:   map[string]interface{}{"streak": decision.Streak},
	})
	if err != nil {
		return nil, err
	}

	if prev != nil {
		if err := s.dailyRepo.UpdateWithTx(ctx, tx, playerID, now, decision.Streak); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	dailyClaims.WithLabelValues("granted").Inc()

	return &ClaimResult{
		Streak:     decision.Streak,
		Reward:     s.reward,
		NewBalance: res.NewBalance,
	}, nil
}

// Status reports eligibility without mutating anything.
func (s *DailyRewardService) Status(ctx context.Context, playerID int64, now time.Time) (*DailyStatus, error) {
	prev, err := s.dailyRepo.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}

	decision := DecideClaim(prev, now)
	st := &DailyStatus{
		Eligible:   decision.Eligible,
		NextStreak: decision.Streak,
	}
	if prev != nil {
		st.Streak = prev.Streak
	}
	if !decision.Eligible {
		st.RemainingSeconds = int64(decision.Remaining.Seconds())
		st.NextStreak = prev.Streak + 1
	}
	return st, nil
}
