package domain

import "time"

// Player is the internal account for one Telegram identity. Exactly one
// row exists per tg_id; the row is created together with its Balance.
type Player struct {
	ID        int64     `db:"id" json:"id"`
	TgID      int64     `db:"tg_id" json:"tg_id"`
	Username  string    `db:"username" json:"username"`
	FirstName string    `db:"first_name" json:"first_name"`
	AvatarURL string    `db:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Balance struct {
	PlayerID  int64     `db:"player_id" json:"player_id"`
	Shards    int64     `db:"shards" json:"shards"`
	Crystals  int64     `db:"crystals" json:"crystals"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Amount returns the counter for the given currency.
func (b *Balance) Amount(c Currency) int64 {
	if c == CurrencyCrystals {
		return b.Crystals
	}
	return b.Shards
}
