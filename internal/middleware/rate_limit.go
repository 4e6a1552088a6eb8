package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/devhub-platform/portal/internal/constants"
	"github.com/devhub-platform/portal/pkg/logger"
	"github.com/gin-gonic/gin"
)

type rateLimiter struct {
	tokens     map[string][]time.Time
	maxRequest int
	duration   time.Duration
	mu         sync.Mutex
}

func newRateLimiter(maxRequest int, duration time.Duration) *rateLimiter {
	return &rateLimiter{
		tokens:     make(map[string][]time.Time),
		maxRequest: maxRequest,
		duration:   duration,
	}
}

func (rl *rateLimiter) cleanup(now time.Time) {
	for ip, tokens := range rl.tokens {
		var valid []time.Time
		for _, t := range tokens {
			if now.Sub(t) <= rl.duration {
				valid = append(valid, t)
			}
		}
		if len(valid) > 0 {
			rl.tokens[ip] = valid
		} else {
			delete(rl.tokens, ip)
		}
	}
}

// RateLimit caps requests per client IP over a sliding window
func RateLimit(maxRequest int, duration time.Duration) gin.HandlerFunc {
	limiter := newRateLimiter(maxRequest, duration)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		limiter.mu.Lock()
		limiter.cleanup(now)
		tokens := limiter.tokens[ip]

		if len(tokens) >= maxRequest {
			limiter.mu.Unlock()
			logger.WarnWithContext(c.Request.Context(), "Rate limit exceeded").
				String("client_ip", ip).
				String("path", c.Request.URL.Path).
				Int("max_requests", maxRequest).
				Log()
			c.JSON(http.StatusTooManyRequests, constants.BuildErrorResponse("Rate limit exceeded", gin.H{
				"retryAfter": duration.Seconds(),
			}))
			c.Abort()
			return
		}

		limiter.tokens[ip] = append(tokens, now)
		limiter.mu.Unlock()

		c.Next()
	}
}
