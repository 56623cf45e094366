package middleware

import (
	"net/http"
	"sync"
	"time"

	"civicdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client bucket survives without requests.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds a map of client IPs to their rate limiters. Idle entries are
// swept at most once per idle window.
type rateLimiterStore struct {
	limiters  map[string]*clientLimiter
	perMin    int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
	mu        sync.Mutex
}

func newRateLimiterStore(perMin int, idle time.Duration) *rateLimiterStore {
	return &rateLimiterStore{
		limiters:  make(map[string]*clientLimiter),
		perMin:    perMin,
		idle:      idle,
		now:       time.Now,
		lastSweep: time.Now(),
	}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.idle {
		for key, entry := range s.limiters {
			if now.Sub(entry.lastSeen) >= s.idle {
				delete(s.limiters, key)
			}
		}
		s.lastSweep = now
	}

	entry, exists := s.limiters[ip]
	if !exists {
		entry = &clientLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin),
		}
		s.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

func (s *rateLimiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// RateLimitMiddleware limits requests per client IP to perMin per minute. The IP comes
// from gin's ClientIP, so forwarding headers only count when the engine trusts the proxy.
func RateLimitMiddleware(perMin int) gin.HandlerFunc {
	if perMin <= 0 {
		perMin = 200
	}
	store := newRateLimiterStore(perMin, limiterIdleTTL)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.getLimiter(ip).Allow() {
			utils.GetLogger().Warn("Rate limit exceeded", zap.String("ip", ip))
			abort(c, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.")
			return
		}
		c.Next()
	}
}
