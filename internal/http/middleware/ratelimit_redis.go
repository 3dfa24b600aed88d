package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter connects the shared Redis client used by the rate
// limiters. With an empty addr, or when the ping fails, the client stays
// nil and the limiters fall back to the in-memory window.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return
	}
	redisClient = client
}

// redisAllow runs a fixed window via INCR/EXPIRE. The bool second return is
// false when Redis errored and the caller should fall back.
func redisAllow(ctx context.Context, key string, maxRequests int, window time.Duration) (allowed, ok bool) {
	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return true, false
	}
	if val == 1 {
		redisClient.Expire(ctx, key, window)
	}
	return val <= int64(maxRequests), true
}

// RateLimit limits requests per client IP: fixed window in Redis when
// configured, in-memory otherwise.
func RateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	if redisClient == nil {
		return MemoryRateLimit(maxRequests, window)
	}
	return func(c *gin.Context) {
		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()

		allowed, ok := redisAllow(c.Request.Context(), key, maxRequests, window)
		if !ok {
			allowed = memoryAllow(key, maxRequests, window)
		}
		if !allowed {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

// PlayerRateLimit limits mutating game actions per authenticated player,
// not per IP. Requires the JWT middleware to have run.
func PlayerRateLimit(maxActions int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerIDVal, exists := c.Get("player_id")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		playerID, okID := playerIDVal.(int64)
		if !okID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid player"})
			return
		}

		key := "act_rl:" + strconv.FormatInt(playerID, 10) + ":" + strconv.FormatInt(int64(window.Seconds()), 10)

		allowed := true
		if redisClient != nil {
			var ok bool
			if allowed, ok = redisAllow(c.Request.Context(), key, maxActions, window); !ok {
				allowed = memoryAllow(key, maxActions, window)
			}
		} else {
			allowed = memoryAllow(key, maxActions, window)
		}

		if !allowed {
			RLBlocked.WithLabelValues("player:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("player:" + c.FullPath()).Inc()
		c.Next()
	}
}
