package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"hirepath-backend/internal/delivery/http/response"
	"hirepath-backend/pkg/audit"
	"hirepath-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key prefix for Redis (default: "rl:ip:")
	KeyPrefix string
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
}

// Atomic increment with TTL on first hit.
// KEYS[1] = counter key, ARGV[1] = TTL in seconds. Returns {count, ttl}.
var rateLimitScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`)

type rateLimitEntry struct {
	count   int
	resetAt time.Time
}

// RateLimiter counts requests per key in fixed windows. Redis is used when a
// client is supplied; otherwise, or when Redis fails, counts are kept in memory.
type RateLimiter struct {
	cfg   RateLimitConfig
	redis *goredis.Client
	audit *audit.Logger
	now   func() time.Time

	mu        sync.Mutex
	entries   map[string]*rateLimitEntry
	lastSweep time.Time
}

func NewRateLimiter(cfg RateLimitConfig, client *goredis.Client, auditLog *audit.Logger) *RateLimiter {
	if cfg.Limit < 1 {
		cfg.Limit = 300
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "rl:ip:"
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	return &RateLimiter{
		cfg:     cfg,
		redis:   client,
		audit:   auditLog,
		now:     time.Now,
		entries: make(map[string]*rateLimitEntry),
	}
}

// Middleware rejects requests over the limit with 429 and sets X-RateLimit-* headers.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.cfg.KeyPrefix + rl.cfg.KeyFunc(c)

		count, resetAt := rl.hit(c.Request.Context(), key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Limit))
		c.Header("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))

		if count > rl.cfg.Limit {
			retryAfter := int(resetAt.Sub(rl.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			rl.audit.RateLimitTriggered(c.GetString(RequestIDKey), c.ClientIP(), c.FullPath())

			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.cfg.Limit-count))
		c.Next()
	}
}

func (rl *RateLimiter) hit(ctx context.Context, key string) (int, time.Time) {
	if rl.redis != nil {
		count, resetAt, err := rl.hitRedis(ctx, key)
		if err == nil {
			return count, resetAt
		}
		// Fail open to the in-memory counter
		logger.Log.Warn("rate limit redis unavailable, using in-memory fallback", "error", err)
	}
	return rl.hitInMemory(key)
}

func (rl *RateLimiter) hitRedis(ctx context.Context, key string) (int, time.Time, error) {
	ttlSeconds := int(rl.cfg.Window.Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	result, err := rateLimitScript.Run(ctx, rl.redis, []string{key}, ttlSeconds).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}
	if len(result) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	return int(result[0]), rl.now().Add(time.Duration(result[1]) * time.Second), nil
}

func (rl *RateLimiter) hitInMemory(key string) (int, time.Time) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > rl.cfg.Window {
		for k, e := range rl.entries {
			if now.After(e.resetAt) {
				delete(rl.entries, k)
			}
		}
		rl.lastSweep = now
	}

	entry, ok := rl.entries[key]
	if !ok || now.After(entry.resetAt) {
		entry = &rateLimitEntry{resetAt: now.Add(rl.cfg.Window)}
		rl.entries[key] = entry
	}
	entry.count++

	return entry.count, entry.resetAt
}
