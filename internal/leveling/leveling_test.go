package leveling

import "testing"

func TestCompute_KnownValues(t *testing.T) {
	cases := []struct {
		power    int64
		level    int
		current  int64
		next     int64
		progress float64
	}{
		{0, 1, 0, 100, 0},
		{-50, 1, 0, 100, 0},
		{1, 1, 0, 100, 0.01},
		{50, 1, 0, 100, 0.5},
		{100, 2, 100, 400, 0},
		{250, 2, 100, 400, 0.5},
		{400, 3, 400, 900, 0},
		{900, 4, 900, 1600, 0},
		{2500, 6, 2500, 3600, 0},
	}

	for _, c := range cases {
		got := Compute(c.power)
		if got.Level != c.level {
			t.Errorf("Compute(%d).Level = %d, want %d", c.power, got.Level, c.level)
		}
		if got.CurrentLevelPower != c.current {
			t.Errorf("Compute(%d).CurrentLevelPower = %d, want %d", c.power, got.CurrentLevelPower, c.current)
		}
		if got.NextLevelPower != c.next {
			t.Errorf("Compute(%d).NextLevelPower = %d, want %d", c.power, got.NextLevelPower, c.next)
		}
		if diff := got.Progress - c.progress; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Compute(%d).Progress = %f, want %f", c.power, got.Progress, c.progress)
		}
	}
}

func TestCompute_Invariants(t *testing.T) {
	prevLevel := 0
	for power := int64(0); power <= 10000; power += 37 {
		p := Compute(power)
		if p.Level < 1 {
			t.Fatalf("Compute(%d).Level = %d, want >= 1", power, p.Level)
		}
		if p.Level < prevLevel {
			t.Fatalf("level decreased at power %d: %d -> %d", power, prevLevel, p.Level)
		}
		prevLevel = p.Level

		if p.NextLevelPower <= p.CurrentLevelPower {
			t.Fatalf("Compute(%d): next %d <= current %d", power, p.NextLevelPower, p.CurrentLevelPower)
		}
		if p.Progress < 0 || p.Progress > 1 {
			t.Fatalf("Compute(%d).Progress = %f out of [0,1]", power, p.Progress)
		}
	}
}
