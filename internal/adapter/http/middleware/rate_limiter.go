package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"eventsapp/pkg/tracing"
)

const rateLimitMessage = "Too many requests from this IP, please try again in an hour!"

// RateLimiter enforces a fixed-window request limit per client IP.
type RateLimiter struct {
	cache    *cache.Cache
	requests int
	window   time.Duration
	logger   *zap.Logger
	metrics  *tracing.AppMetrics
	mutex    sync.Mutex
}

// RateLimitEntry is the per-client window state.
type RateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

// NewRateLimiter creates a limiter allowing requests per window for each IP.
func NewRateLimiter(requests int, window time.Duration, logger *zap.Logger, metrics *tracing.AppMetrics) *RateLimiter {
	return &RateLimiter{
		cache:    cache.New(window, 2*window),
		requests: requests,
		window:   window,
		logger:   logger,
		metrics:  metrics,
	}
}

// Middleware limits every request routed through it by client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		key := fmt.Sprintf("rate_limit:%s", c.ClientIP())

		allowed, remaining, resetTime := rl.check(key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), path)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", rl.requests),
				zap.Duration("window", rl.window))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "fail",
				"message": rateLimitMessage,
			})
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path)
		}

		c.Next()
	}
}

func (rl *RateLimiter) check(key string) (bool, int, time.Time) {
	now := time.Now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if raw, found := rl.cache.Get(key); found {
		entry := raw.(RateLimitEntry)

		if now.Before(entry.ResetTime) {
			if entry.Count >= rl.requests {
				return false, 0, entry.ResetTime
			}

			entry.Count++
			rl.cache.Set(key, entry, cache.DefaultExpiration)

			return true, rl.requests - entry.Count, entry.ResetTime
		}
	}

	resetTime := now.Add(rl.window)
	rl.cache.Set(key, RateLimitEntry{Count: 1, ResetTime: resetTime}, rl.window)

	return true, rl.requests - 1, resetTime
}
