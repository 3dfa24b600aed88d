package service

import (
	"testing"
	"time"

	"card_arena/internal/domain"
)

func TestDecideClaim_FirstClaim(t *testing.T) {
	d := DecideClaim(nil, time.Now())
	if !d.Eligible {
		t.Fatal("first claim must be eligible")
	}
	if d.Streak != 1 {
		t.Fatalf("first claim streak = %d, want 1", d.Streak)
	}
}

func TestDecideClaim_Transitions(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		elapsed    time.Duration
		prevStreak int
		eligible   bool
		streak     int
	}{
		{"one hour later", time.Hour, 3, false, 0},
		{"23h later", 23 * time.Hour, 3, false, 0},
		{"just under cooldown", 24*time.Hour - time.Second, 1, false, 0},
		{"exactly 24h", 24 * time.Hour, 3, true, 4},
		{"25h continues streak", 25 * time.Hour, 3, true, 4},
		{"exactly 48h still continues", 48 * time.Hour, 5, true, 6},
		{"just over 48h resets", 48*time.Hour + time.Second, 5, true, 1},
		{"49h resets", 49 * time.Hour, 9, true, 1},
		{"a week later resets", 7 * 24 * time.Hour, 2, true, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			prev := &domain.DailyRewardState{PlayerID: 1, LastClaim: base, Streak: c.prevStreak}
			d := DecideClaim(prev, base.Add(c.elapsed))

			if d.Eligible != c.eligible {
				t.Fatalf("eligible = %v, want %v", d.Eligible, c.eligible)
			}
			if d.Eligible && d.Streak != c.streak {
				t.Fatalf("streak = %d, want %d", d.Streak, c.streak)
			}
			if !d.Eligible {
				if d.Remaining <= 0 {
					t.Fatalf("remaining = %v, want positive", d.Remaining)
				}
				if d.Remaining > 24*time.Hour {
					t.Fatalf("remaining = %v, want <= 24h", d.Remaining)
				}
			}
		})
	}
}

func TestDecideClaim_RemainingMatchesCooldown(t *testing.T) {
	last := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	prev := &domain.DailyRewardState{PlayerID: 1, LastClaim: last, Streak: 1}

	d := DecideClaim(prev, last.Add(23*time.Hour))
	if d.Eligible {
		t.Fatal("claim at +23h must be rejected")
	}
	if d.Remaining != time.Hour {
		t.Fatalf("remaining = %v, want 1h", d.Remaining)
	}
}
