package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/akuaasantewaa/fitta/internal/errors"
)

// RateLimiter tracks a token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limits   map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	lastSeen map[string]time.Time
}

// NewRateLimiter creates a rate limiter allowing perSecond requests with
// the given burst per client.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if perSecond <= 0 {
		perSecond = 10
	}
	if burst <= 0 {
		burst = 20
	}
	return &RateLimiter{
		limits:   make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     rate.Limit(perSecond),
		burst:    burst,
	}
}

// Allow reports whether a request from the key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiter(key).Allow()
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lastSeen[key] = time.Now()
	if limiter, ok := rl.limits[key]; ok {
		return limiter
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.limits[key] = limiter

	// Opportunistic cleanup of buckets idle for an hour.
	if len(rl.limits) > 1024 {
		cutoff := time.Now().Add(-time.Hour)
		for k, seen := range rl.lastSeen {
			if seen.Before(cutoff) {
				delete(rl.limits, k)
				delete(rl.lastSeen, k)
			}
		}
	}
	return limiter
}

// Middleware rejects requests over the per-client budget with 429.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(c.RealIP()) {
				appErr := errors.RateLimitExceeded("too many requests, slow down")
				return c.JSON(http.StatusTooManyRequests, map[string]any{
					"code":    appErr.Code,
					"message": appErr.Message,
				})
			}
			return next(c)
		}
	}
}
