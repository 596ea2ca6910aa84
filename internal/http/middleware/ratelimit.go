package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"task_manager/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

type clientInfo struct {
	expires time.Time
	count   int
}

// RateLimiter is a fixed-window limiter. With a Redis client the counters
// are shared across instances (INCR/EXPIRE); without one they live in
// process memory and expired windows are swept as requests arrive. Redis
// errors fail open.
type RateLimiter struct {
	redis *redis.Client

	mu        sync.Mutex
	clients   map[string]*clientInfo
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{
		redis:   rdb,
		clients: make(map[string]*clientInfo),
		now:     time.Now,
	}
}

// Limit allows maxRequests per window per caller. Callers are keyed by user
// id when Identity has resolved one, otherwise by client IP.
// key format: rl:<name>:<window_seconds>:<identifier>
func (l *RateLimiter) Limit(name string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxRequests <= 0 {
			c.Next()
			return
		}

		ident := UserID(c)
		if ident == "" {
			ident = c.ClientIP()
		}
		key := "rl:" + name + ":" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident

		count, err := l.incr(c.Request.Context(), key, window)
		if err != nil {
			logger.WithContext(c.Request.Context()).Warn("rate limiter unavailable", "error", err)
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-count), 10))

		if count > int64(maxRequests) {
			RLBlocked.WithLabelValues(name).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues(name).Inc()
		c.Next()
	}
}

func (l *RateLimiter) incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if l.redis == nil {
		return l.incrLocal(key, window), nil
	}

	// NX keeps the window anchored at the first hit and re-arms a key that
	// lost its TTL
	var count *redis.IntCmd
	var expire *redis.BoolCmd
	if _, err := l.redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		count = p.Incr(ctx, key)
		expire = p.ExpireNX(ctx, key, window)
		return nil
	}); err != nil {
		return 0, err
	}
	if err := expire.Err(); err != nil {
		return 0, err
	}
	return count.Val(), nil
}

func (l *RateLimiter) incrLocal(key string, window time.Duration) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= window {
		l.sweep(now)
	}

	ci, ok := l.clients[key]
	if !ok || !now.Before(ci.expires) {
		l.clients[key] = &clientInfo{expires: now.Add(window), count: 1}
		return 1
	}
	ci.count++
	return int64(ci.count)
}

// sweep drops expired windows. Callers hold l.mu.
func (l *RateLimiter) sweep(now time.Time) {
	for key, ci := range l.clients {
		if !now.Before(ci.expires) {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}
