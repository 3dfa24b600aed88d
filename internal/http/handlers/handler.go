package handlers

import (
	"card_arena/internal/repository"
	"card_arena/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HandlerConfig carries the tunables handlers need beyond their services.
type HandlerConfig struct {
	BotToken          string
	AdminToken        string
	DailyRewardShards int64
}

type Handler struct {
	DB         *pgxpool.Pool
	BotToken   string
	adminToken string

	PlayerRepo *repository.PlayerRepository
	Ledger     *service.LedgerService
	Daily      *service.DailyRewardService
	Queue      *service.QueueService
}

func NewHandler(db *pgxpool.Pool, cfg HandlerConfig) *Handler {
	ledger := service.NewLedgerService(db)
	return &Handler{
		DB:         db,
		BotToken:   cfg.BotToken,
		adminToken: cfg.AdminToken,
		PlayerRepo: repository.NewPlayerRepository(db),
		Ledger:     ledger,
		Daily:      service.NewDailyRewardService(db, ledger, cfg.DailyRewardShards),
		Queue:      service.NewQueueService(db),
	}
}

// playerID extracts the authenticated player id set by the JWT middleware.
func playerID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	v, ok := c.Get("player_id")
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case int64:
		return id, true
	case float64:
		return int64(id), true
	default:
		return 0, false
	}
}
