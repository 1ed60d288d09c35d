package security

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type RateLimiterConfig struct {
	Redis    *redis.Client
	Limit    int
	Interval time.Duration
	// KeyFunc picks the bucket for a request; defaults to the client IP.
	KeyFunc func(c *gin.Context) string
}

// counter increments the hit count of a window and reports its remaining TTL.
type counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RateLimiter is a fixed-window limiter shared by every server instance
// through Redis.
type RateLimiter struct {
	store    counter
	limit    int
	interval time.Duration
	keyFunc  func(c *gin.Context) string
}

func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	return newRateLimiter(&redisCounter{client: cfg.Redis}, cfg)
}

func newRateLimiter(store counter, cfg RateLimiterConfig) *RateLimiter {
	if cfg.Limit <= 0 {
		cfg.Limit = 100
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	return &RateLimiter{store: store, limit: cfg.Limit, interval: cfg.Interval, keyFunc: cfg.KeyFunc}
}

func rateLimitKey(key string) string { return fmt.Sprintf("rate_limit:%s", key) }

// Allow records one hit for key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Duration, error) {
	count, ttl, err := rl.store.Hit(ctx, rateLimitKey(key), rl.interval)
	if err != nil {
		return true, rl.limit, rl.interval, err
	}

	remaining := rl.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return int(count) <= rl.limit, remaining, ttl, nil
}

func (rl *RateLimiter) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, reset, err := rl.Allow(c.Request.Context(), rl.keyFunc(c))
		if err != nil {
			// Redis being down must not take the API with it.
			log.Warn().Err(err).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(reset.Seconds())))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(reset.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
				"code":  "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}

type redisCounter struct {
	client *redis.Client
}

func (r *redisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}

	remaining := ttl.Val()
	if remaining < 0 {
		remaining = window
	}
	return incr.Val(), remaining, nil
}
