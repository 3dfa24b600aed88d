package domain

import (
	"fmt"
	"time"
)

// Currency identifies one of the two balance counters.
type Currency string

const (
	CurrencyShards   Currency = "shards"   // soft currency
	CurrencyCrystals Currency = "crystals" // hard currency
)

func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case CurrencyShards, CurrencyCrystals:
		return Currency(s), nil
	}
	return "", fmt.Errorf("unknown currency %q", s)
}

// Direction tells whether an event adds to or removes from a balance.
type Direction string

const (
	DirectionEarn  Direction = "earn"
	DirectionSpend Direction = "spend"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionEarn, DirectionSpend:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// CurrencyEvent is one append-only ledger record. Rows are never updated
// or deleted; the balance counters are always the fold of these events.
type CurrencyEvent struct {
	ID           int64                  `db:"id" json:"id"`
	PlayerID     int64                  `db:"player_id" json:"player_id"`
	Currency     Currency               `db:"currency" json:"currency"`
	Direction    Direction              `db:"direction" json:"direction"`
	Amount       int64                  `db:"amount" json:"amount"` // positive magnitude
	BalanceAfter int64                  `db:"balance_after" json:"balance_after"`
	Source       string                 `db:"source" json:"source"`
	Context      map[string]interface{} `db:"context" json:"context,omitempty"`
	IdemKey      string                 `db:"idem_key" json:"-"`
	CreatedAt    time.Time              `db:"created_at" json:"created_at"`
}

// Signed returns the event's contribution to the balance fold.
func (e *CurrencyEvent) Signed() int64 {
	if e.Direction == DirectionSpend {
		return -e.Amount
	}
	return e.Amount
}
