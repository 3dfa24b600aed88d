package domain

import "time"

// DailyRewardState tracks the periodic reward cooldown for one player.
// Created on the first successful claim, updated on every later one.
type DailyRewardState struct {
	PlayerID  int64     `db:"player_id" json:"player_id"`
	LastClaim time.Time `db:"last_claim" json:"last_claim"`
	Streak    int       `db:"streak" json:"streak"`
}
