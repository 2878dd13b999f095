package limiter

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	ttl      time.Duration
}

func newRateLimiter(rps int, burst int, ttl time.Duration) *rateLimiter {
	return &rateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
	}
}

func (l *rateLimiter) getVisitor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if v, ok := l.visitors[ip]; ok {
		v.lastSeen = now
		return v.limiter
	}

	lim := rate.NewLimiter(l.limit, l.burst)
	l.visitors[ip] = &visitor{limiter: lim, lastSeen: now}
	l.cleanup(now)

	return lim
}

func (l *rateLimiter) cleanup(now time.Time) {
	if l.ttl == 0 {
		return
	}
	cutoff := now.Add(-l.ttl)
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
		}
	}
}

const tooManyRequestsMessage = "Çok fazla istek gönderildi. Lütfen daha sonra tekrar deneyin."

// rejection mirrors the API response envelope.
type rejection struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Limit returns a per client IP token bucket middleware.
func Limit(rps int, burst int, ttl time.Duration) gin.HandlerFunc {
	l := newRateLimiter(rps, burst, ttl)

	return func(c *gin.Context) {
		if !l.getVisitor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, rejection{Message: tooManyRequestsMessage})
			return
		}

		c.Next()
	}
}
