package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"card_arena/internal/domain"
	"card_arena/internal/repository"
	"card_arena/internal/service"
)

const testReward = 100

func TestDaily_FirstClaim(t *testing.T) {
	db := connectDB(t)
	ledger := service.NewLedgerService(db)
	daily := service.NewDailyRewardService(db, ledger, testReward)
	p := newTestPlayer(t, db)
	ctx := context.Background()

	res, err := daily.Claim(ctx, p.ID, time.Now())
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if res.Streak != 1 {
		t.Fatalf("first claim streak = %d, want 1", res.Streak)
	}
	if res.NewBalance != testReward {
		t.Fatalf("balance after first claim = %d, want %d", res.NewBalance, testReward)
	}
}

func TestDaily_CooldownRejectsSecondClaim(t *testing.T) {
	db := connectDB(t)
	ledger := service.NewLedgerService(db)
	daily := service.NewDailyRewardService(db, ledger, testReward)
	p := newTestPlayer(t, db)
	ctx := context.Background()

	start := time.Now()
	if _, err := daily.Claim(ctx, p.ID, start); err != nil {
		t.Fatalf("first claim: %v", err)
	}

	_, err := daily.Claim(ctx, p.ID, start.Add(23*time.Hour))
	var claimed *service.AlreadyClaimedError
	if !errors.As(err, &claimed) {
		t.Fatalf("expected AlreadyClaimedError, got %v", err)
	}
	if claimed.Remaining <= 0 {
		t.Fatalf("remaining = %v, want positive", claimed.Remaining)
	}

	// the rejected claim must not have credited anything
	balance, err := ledger.GetBalance(ctx, p.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.Shards != testReward {
		t.Fatalf("balance = %d after rejected claim, want %d", balance.Shards, testReward)
	}
}

func TestDaily_StreakContinuesAndResets(t *testing.T) {
	db := connectDB(t)
	ledger := service.NewLedgerService(db)
	daily := service.NewDailyRewardService(db, ledger, testReward)
	p := newTestPlayer(t, db)
	ctx := context.Background()

	start := time.Now()
	if _, err := daily.Claim(ctx, p.ID, start); err != nil {
		t.Fatalf("claim 1: %v", err)
	}

	res, err := daily.Claim(ctx, p.ID, start.Add(25*time.Hour))
	if err != nil {
		t.Fatalf("claim 2: %v", err)
	}
	if res.Streak != 2 {
		t.Fatalf("claim at +25h streak = %d, want 2", res.Streak)
	}

	res, err = daily.Claim(ctx, p.ID, start.Add(25*time.Hour).Add(49*time.Hour))
	if err != nil {
		t.Fatalf("claim 3: %v", err)
	}
	if res.Streak != 1 {
		t.Fatalf("claim after 49h gap streak = %d, want 1 (reset)", res.Streak)
	}

	balance, err := ledger.GetBalance(ctx, p.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.Shards != 3*testReward {
		t.Fatalf("balance = %d after 3 claims, want %d", balance.Shards, 3*testReward)
	}
}

func TestDaily_ClaimIsAtomicWithLedger(t *testing.T) {
	db := connectDB(t)
	ledger := service.NewLedgerService(db)
	daily := service.NewDailyRewardService(db, ledger, testReward)
	events := repository.NewCurrencyEventRepository(db)
	p := newTestPlayer(t, db)
	ctx := context.Background()

	now := time.Now()
	res, err := daily.Claim(ctx, p.ID, now)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}

	// one event, balance matches fold, state row advanced, all visible together
	sum, err := events.SumSigned(ctx, p.ID, domain.CurrencyShards)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != res.NewBalance {
		t.Fatalf("fold %d != claim result balance %d", sum, res.NewBalance)
	}

	history, err := events.GetByPlayer(ctx, p.ID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("events = %d, want 1", len(history))
	}
	if history[0].Source != "daily_reward" {
		t.Fatalf("event source = %q, want daily_reward", history[0].Source)
	}
	if streak, ok := history[0].Context["streak"].(float64); !ok || int(streak) != res.Streak {
		t.Fatalf("event context streak = %v, want %d", history[0].Context["streak"], res.Streak)
	}
}

func TestDaily_ConcurrentFirstClaimsGrantOnce(t *testing.T) {
	db := connectDB(t)
	ledger := service.NewLedgerService(db)
	daily := service.NewDailyRewardService(db, ledger, testReward)
	p := newTestPlayer(t, db)
	ctx := context.Background()

	const claimers = 8
	now := time.Now()

	var wg sync.WaitGroup
	var granted int32
	var mu sync.Mutex

	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := daily.Claim(ctx, p.ID, now)
			if err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
				return
			}
			var claimed *service.AlreadyClaimedError
			if !errors.As(err, &claimed) {
				t.Errorf("unexpected claim error: %v", err)
			}
		}()
	}
	wg.Wait()

	if granted != 1 {
		t.Fatalf("grants = %d, want exactly 1", granted)
	}

	balance, err := ledger.GetBalance(ctx, p.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.Shards != testReward {
		t.Fatalf("balance = %d after concurrent claims, want %d", balance.Shards, testReward)
	}
}
