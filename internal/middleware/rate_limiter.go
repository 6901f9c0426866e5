package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SubmitLimiterConfig throttles the money-touching endpoints (quote and
// swap submission) per caller.
type SubmitLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type callerLimiters struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	config   SubmitLimiterConfig
}

func (cl *callerLimiters) get(key string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Bound memory: reset the table rather than track per-entry age.
	if len(cl.limiters) > 10000 {
		cl.limiters = make(map[string]*rate.Limiter)
	}

	limiter, ok := cl.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(cl.config.RequestsPerSecond), cl.config.Burst)
		cl.limiters[key] = limiter
	}
	return limiter
}

// SubmitLimiter rate limits per user id when present, falling back to the
// client IP for unauthenticated callers.
func SubmitLimiter(config SubmitLimiterConfig) gin.HandlerFunc {
	limiters := &callerLimiters{
		limiters: make(map[string]*rate.Limiter),
		config:   config,
	}

	return func(c *gin.Context) {
		key := c.GetHeader("X-User-ID")
		if key == "" {
			key = c.ClientIP()
		}

		limiter := limiters.get(key)
		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := reservation.DelayFrom(time.Now()).Seconds()
			reservation.Cancel()

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded. Please try again later.",
				"retry_after": retryAfter,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
