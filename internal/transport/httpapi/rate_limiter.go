package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds one limiter per client IP
type rateLimiterStore struct {
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
}

func newRateLimiterStore(perMinute, burst int) *rateLimiterStore {
	if burst <= 0 {
		burst = 1
	}
	return &rateLimiterStore{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

// getLimiter returns the limiter for ip, creating it on first use
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(s.limit, s.burst)
		s.limiters[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware limits requests per client IP. perMinute <= 0 disables it.
func RateLimitMiddleware(perMinute, burst int, logger *zap.Logger) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	store := newRateLimiterStore(perMinute, burst)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.getLimiter(ip).Allow() {
			logger.Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
