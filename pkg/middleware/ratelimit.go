package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type visitorLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter manages rate limiters for each client IP
type IPRateLimiter struct {
	ips map[string]*visitorLimiter
	mu  sync.Mutex
	r   rate.Limit
	b   int
	now func() time.Time
}

// NewIPRateLimiter creates a new limiter with rate r and burst b
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*visitorLimiter),
		r:   r,
		b:   b,
		now: time.Now,
	}
}

// GetLimiter returns the limiter for ip, creating it on first use
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	v, exists := i.ips[ip]
	if !exists {
		v = &visitorLimiter{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = v
	}
	v.lastSeen = i.now()

	return v.limiter
}

// Len returns the number of tracked IPs
func (i *IPRateLimiter) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}

// Prune forgets IPs not seen for idle
func (i *IPRateLimiter) Prune(idle time.Duration) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	cutoff := i.now().Add(-idle)
	removed := 0
	for ip, v := range i.ips {
		if v.lastSeen.Before(cutoff) {
			delete(i.ips, ip)
			removed++
		}
	}
	return removed
}

// StartCleanup prunes idle IPs every interval until ctx is done
func (i *IPRateLimiter) StartCleanup(ctx context.Context, interval, idle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := i.Prune(idle); n > 0 {
					log.Debug().Int("removed", n).Msg("Pruned rate limiter entries")
				}
			}
		}
	}()
}

// RateLimit rejects requests from a client IP exceeding the limiter's rate
func RateLimit(limiter *IPRateLimiter) gin.HandlerFunc {
	return RateLimitIf(limiter, nil)
}

// RateLimitIf applies the limiter only to requests matching cond. A nil cond
// matches every request.
func RateLimitIf(limiter *IPRateLimiter, cond func(*gin.Context) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cond != nil && !cond(c) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if !limiter.GetLimiter(ip).Allow() {
			log.Warn().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("ip", ip).
				Str("path", c.Request.URL.Path).
				Msg("Rate limit exceeded")
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "Too many attempts, please try again later",
			})
			return
		}

		c.Next()
	}
}
