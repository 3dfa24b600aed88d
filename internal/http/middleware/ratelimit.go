package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type windowState struct {
	start time.Time
	count int
}

var (
	memMu      sync.Mutex
	memWindows = make(map[string]*windowState)
)

// memoryAllow is the in-process fixed-window fallback used when Redis is
// not configured. Per-instance only; fine for a single-process deployment.
func memoryAllow(key string, maxRequests int, window time.Duration) bool {
	memMu.Lock()
	defer memMu.Unlock()

	now := time.Now()
	ws, ok := memWindows[key]
	if !ok || now.Sub(ws.start) > window {
		memWindows[key] = &windowState{start: now, count: 1}
		return true
	}

	ws.count++
	return ws.count <= maxRequests
}

// MemoryRateLimit blocks clients that exceed maxRequests per window,
// keyed by client IP.
func MemoryRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !memoryAllow("ip:"+c.ClientIP(), maxRequests, window) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
