package http

import (
	"card_arena/internal/config"
	"card_arena/internal/http/handlers"
	"card_arena/internal/http/middleware"
	"card_arena/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires the full HTTP surface and the queue-status
// websocket, and attaches the hub to the queue service for push updates.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	h := handlers.NewHandler(db, handlers.HandlerConfig{
		BotToken:          cfg.BotToken,
		AdminToken:        cfg.AdminToken,
		DailyRewardShards: cfg.DailyRewardShards,
	})
	healthHandler := handlers.NewHealthHandler(db, version)

	hub := ws.NewHub()
	h.Queue.SetNotifier(hub)

	// Health checks, no rate limiting
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, h, cfg)

	r.GET("/ws", h.WS(hub))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, cfg *config.Config) {
	// Auth gets its own tighter window on top of the group limit
	api.POST("/auth", middleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow), h.Auth)

	// Player
	api.GET("/me", middleware.JWT(), h.Me)
	api.GET("/profile", middleware.JWT(), h.MyProfile)
	api.GET("/profile/:id", h.Profile)

	// Ledger read model
	api.GET("/balance", middleware.JWT(), h.Balance)
	api.GET("/history", middleware.JWT(), h.History)

	// Per-player limiter for mutating game actions
	actionRL := middleware.PlayerRateLimit(cfg.ActionRateLimit, cfg.ActionRateWindow)

	// Daily reward
	api.POST("/daily/claim", middleware.JWT(), actionRL, h.DailyClaim)
	api.GET("/daily/status", middleware.JWT(), h.DailyStatus)

	// Matchmaking queue
	api.POST("/queue/join", middleware.JWT(), actionRL, h.QueueJoin)
	api.POST("/queue/cancel", middleware.JWT(), actionRL, h.QueueCancel)
	api.GET("/queue/status", middleware.JWT(), h.QueueStatus)

	// Leaderboard
	api.GET("/leaderboard", h.Leaderboard)
	api.GET("/leaderboard/rank", middleware.JWT(), h.MyRank)

	// Privileged surface, bearer-gated inside the handlers
	admin := api.Group("/admin")
	{
		admin.POST("/grant", h.AdminGrant)
		admin.POST("/match", h.AdminMatch)
	}
}
