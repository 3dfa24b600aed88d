// Package cache holds small read-through caches in front of expensive
// aggregate queries. Everything here is best-effort: a miss or a Redis
// failure falls back to the database.
package cache

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLeaderboardCache connects to Redis. Returns a disabled cache (never
// hits, silently skips stores) when addr is empty or the ping fails.
func NewLeaderboardCache(addr, password string, db int, ttl time.Duration) *LeaderboardCache {
	c := &LeaderboardCache{ttl: ttl}
	if addr == "" {
		return c
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return c
	}
	c.client = client
	return c
}

// Get returns the cached payload for a key, or nil on miss/disabled/error.
func (c *LeaderboardCache) Get(ctx context.Context, key string) []byte {
	if c.client == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	return raw
}

// Set stores a payload with the configured TTL. Best-effort.
func (c *LeaderboardCache) Set(ctx context.Context, key string, payload []byte) {
	if c.client == nil {
		return
	}
	_ = c.client.Set(ctx, key, payload, c.ttl).Err()
}
