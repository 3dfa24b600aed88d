// Package leveling maps accumulated item power to a character level. It is
// the single implementation shared by the profile, admin and leaderboard
// views; call sites must not re-derive the formula.
package leveling

import "math"

// Base is the power required to reach level 2. Level n starts at
// Base*(n-1)^2 total power.
const Base = 100

// Progress describes where a player sits inside the level curve.
type Progress struct {
	Level             int     `json:"level"`
	CurrentLevelPower int64   `json:"current_level_power"`
	NextLevelPower    int64   `json:"next_level_power"`
	Progress          float64 `json:"progress"`
}

// Compute returns the level and intra-level progress for a total power value.
// Power at or below zero maps to level 1 with zero progress.
func Compute(totalPower int64) Progress {
	if totalPower <= 0 {
		return Progress{Level: 1, CurrentLevelPower: 0, NextLevelPower: Base, Progress: 0}
	}

	level := int(math.Floor(math.Sqrt(float64(totalPower)/Base))) + 1
	if level < 1 {
		level = 1
	}

	current := int64(Base) * int64(level-1) * int64(level-1)
	next := int64(Base) * int64(level) * int64(level)

	var progress float64
	if span := next - current; span > 0 {
		progress = float64(totalPower-current) / float64(span)
		if progress < 0 {
			progress = 0
		}
		if progress > 1 {
			progress = 1
		}
	}

	return Progress{
		Level:             level,
		CurrentLevelPower: current,
		NextLevelPower:    next,
		Progress:          progress,
	}
}
