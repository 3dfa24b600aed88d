package config

import (
	"os"
	"strconv"
	"time"

	"card_arena/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	BotToken    string
	JWTSecret   string
	AdminToken  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DailyRewardShards int64

	APIRateLimit     int
	APIRateWindow    time.Duration
	AuthRateLimit    int
	AuthRateWindow   time.Duration
	ActionRateLimit  int
	ActionRateWindow time.Duration

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment (and .env when present).
// Missing required values are fatal at startup.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:           getEnv("APP_PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		BotToken:          os.Getenv("BOT_TOKEN"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminToken:        os.Getenv("ADMIN_TOKEN"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		DailyRewardShards: getEnvInt64("DAILY_REWARD_SHARDS", 100),
		APIRateLimit:      getEnvInt("API_RATE_LIMIT", 60),
		APIRateWindow:     getEnvSeconds("API_RATE_WINDOW_SECONDS", time.Minute),
		AuthRateLimit:     getEnvInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow:    getEnvSeconds("AUTH_RATE_WINDOW_SECONDS", time.Minute),
		ActionRateLimit:   getEnvInt("ACTION_RATE_LIMIT", 30),
		ActionRateWindow:  getEnvSeconds("ACTION_RATE_WINDOW_SECONDS", time.Minute),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogJSON:           os.Getenv("LOG_JSON") == "true",
	}

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}
	if cfg.BotToken == "" {
		logger.Fatal("BOT_TOKEN is not set")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getEnvSeconds(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
