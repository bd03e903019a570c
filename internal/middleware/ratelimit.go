package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	logger *zap.Logger
}

// NewRateLimiter allows perMinute requests per IP with the given burst.
func NewRateLimiter(perMinute float64, burst int, logger *zap.Logger) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{
		limit:    rate.Limit(perMinute / time.Minute.Seconds()),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
		logger:   logger,
	}
}

func (r *RateLimiter) getLimiter(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	limiter, exists := r.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(r.limit, r.burst)
		r.limiters[ip] = limiter
	}
	return limiter
}

// Middleware rejects requests over the limit with 429.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !r.getLimiter(ip).Allow() {
			r.logger.Warn("rate limit exceeded",
				zap.String("ip", ip),
				zap.String("path", c.FullPath()),
				zap.String("request_id", GetRequestID(c)),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many booking attempts. Please try again later."})
			return
		}
		c.Next()
	}
}
