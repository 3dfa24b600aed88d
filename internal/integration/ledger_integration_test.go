package integration

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"card_arena/internal/domain"
	"card_arena/internal/repository"
	"card_arena/internal/service"
)

func TestLedger_FoldInvariantSequential(t *testing.T) {
	db := connectDB(t)
	ledger := service.NewLedgerService(db)
	events := repository.NewCurrencyEventRepository(db)
	p := newTestPlayer(t, db)
	ctx := context.Background()

	deltas := []struct {
		direction domain.Direction
		amount    int64
	}{
		{domain.DirectionEarn, 500},
		{domain.DirectionSpend, 120},
		{domain.DirectionEarn, 30},
		{domain.DirectionSpend, 200},
		{domain.DirectionEarn, 1},
	}

	for i, d := range deltas {
		_, err := ledger.Apply(ctx, service.Delta{
			PlayerID:  p.ID,
			Currency:  domain.CurrencyShards,
			Direction: d.direction,
			Amount:    d.amount,
			Source:    "test",
			IdemKey:   fmt.Sprintf("seq-%d-%d", p.ID, i),
		})
		if err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
	}

	balance, err := ledger.GetBalance(ctx, p.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	sum, err := events.SumSigned(ctx, p.ID, domain.CurrencyShards)
	if err != nil {
		t.Fatalf("sum events: %v", err)
	}
	if balance.Shards != sum {
		t.Fatalf("balance %d != fold of events %d", balance.Shards, sum)
	}
	if balance.Shards != 211 {
		t.Fatalf("balance = %d, want 211", balance.Shards)
	}
}

func TestLedger_FoldInvariantConcurrent(t *testing.T) {
	db := connectDB(t)
	ledger := service.NewLedgerService(db)
	events := repository.NewCurrencyEventRepository(db)
	p := newTestPlayer(t, db)
	ctx := context.Background()

	// seed so spends have something to take
	if _, err := ledger.Apply(ctx, service.Delta{
		PlayerID: p.ID, Currency: domain.CurrencyShards,
		Direction: domain.DirectionEarn, Amount: 100000, Source: "seed",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	const workers = 16
	const opsPerWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(w)))
			for i := 0; i < opsPerWorker; i++ {
				direction := domain.DirectionEarn
				if rng.Intn(2) == 0 {
					direction = domain.DirectionSpend
				}
				_, err := ledger.Apply(ctx, service.Delta{
					PlayerID:  p.ID,
					Currency:  domain.CurrencyShards,
					Direction: direction,
					Amount:    int64(rng.Intn(50) + 1),
					Source:    "race",
				})
				// insufficient funds is a legal outcome under contention
				if err != nil && !errors.Is(err, service.ErrInsufficientFunds) {
					t.Errorf("worker %d op %d: %v", w, i, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	balance, err := ledger.GetBalance(ctx, p.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	sum, err := events.SumSigned(ctx, p.ID, domain.CurrencyShards)
	if err != nil {
		t.Fatalf("sum events: %v", err)
	}
	if balance.Shards != sum {
		t.Fatalf("balance %d != fold of events %d after concurrent deltas", balance.Shards, sum)
	}
	if balance.Shards < 0 {
		t.Fatalf("balance went negative: %d", balance.Shards)
	}
}

func TestLedger_InsufficientFunds(t *testing.T) {
	db := connectDB(t)
	ledger := service.NewLedgerService(db)
	p := newTestPlayer(t, db)
	ctx := context.Background()

	if _, err := ledger.Apply(ctx, service.Delta{
		PlayerID: p.ID, Currency: domain.CurrencyCrystals,
		Direction: domain.DirectionEarn, Amount: 10, Source: "seed",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := ledger.Apply(ctx, service.Delta{
		PlayerID: p.ID, Currency: domain.CurrencyCrystals,
		Direction: domain.DirectionSpend, Amount: 11, Source: "overdraft",
	})
	if !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	balance, err := ledger.GetBalance(ctx, p.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.Crystals != 10 {
		t.Fatalf("rejected spend must not move the balance, got %d", balance.Crystals)
	}
}

func TestLedger_IdempotentReplay(t *testing.T) {
	db := connectDB(t)
	ledger := service.NewLedgerService(db)
	p := newTestPlayer(t, db)
	ctx := context.Background()

	delta := service.Delta{
		PlayerID:  p.ID,
		Currency:  domain.CurrencyShards,
		Direction: domain.DirectionEarn,
		Amount:    75,
		Source:    "quest",
		IdemKey:   fmt.Sprintf("quest-%d-1", p.ID),
	}

	first, err := ledger.Apply(ctx, delta)
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	second, err := ledger.Apply(ctx, delta)
	if err != nil {
		t.Fatalf("replay apply: %v", err)
	}

	if !second.Replayed {
		t.Fatal("second apply with same idem key must be a replay")
	}
	if second.NewBalance != first.NewBalance {
		t.Fatalf("replay balance %d != original %d", second.NewBalance, first.NewBalance)
	}
	if second.Event.ID != first.Event.ID {
		t.Fatalf("replay returned a different event: %d vs %d", second.Event.ID, first.Event.ID)
	}

	balance, err := ledger.GetBalance(ctx, p.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.Shards != 75 {
		t.Fatalf("balance = %d after replay, want 75", balance.Shards)
	}
}

func TestLedger_InvalidAmount(t *testing.T) {
	db := connectDB(t)
	ledger := service.NewLedgerService(db)
	p := newTestPlayer(t, db)

	for _, amount := range []int64{0, -5} {
		_, err := ledger.Apply(context.Background(), service.Delta{
			PlayerID: p.ID, Currency: domain.CurrencyShards,
			Direction: domain.DirectionEarn, Amount: amount, Source: "bad",
		})
		if !errors.Is(err, service.ErrInvalidAmount) {
			t.Fatalf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestLedger_SpendRecordsResultingBalance(t *testing.T) {
	db := connectDB(t)
	ledger := service.NewLedgerService(db)
	p := newTestPlayer(t, db)
	ctx := context.Background()

	if _, err := ledger.Apply(ctx, service.Delta{
		PlayerID: p.ID, Currency: domain.CurrencyShards,
		Direction: domain.DirectionEarn, Amount: 300, Source: "seed",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := ledger.Apply(ctx, service.Delta{
		PlayerID: p.ID, Currency: domain.CurrencyShards,
		Direction: domain.DirectionSpend, Amount: 120, Source: "shop",
	})
	if err != nil {
		t.Fatalf("spend: %v", err)
	}
	if res.Event.BalanceAfter != 180 {
		t.Fatalf("spend event balance_after = %d, want 180", res.Event.BalanceAfter)
	}

	spent, err := ledger.TotalShardsSpent(ctx, p.ID)
	if err != nil {
		t.Fatalf("total spent: %v", err)
	}
	if spent != 120 {
		t.Fatalf("total shards spent = %d, want 120", spent)
	}
}
