package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiters hands out one token bucket per client IP. Limiters are never
// evicted; the set of clients behind a sales desk is small.
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	burst    int
}

func (cl *clientLimiters) get(ip string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	lim, ok := cl.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(cl.r, cl.burst)
		cl.limiters[ip] = lim
	}
	return lim
}

// RateLimit rejects clients exceeding r requests per second with burst b.
// Spreadsheet imports and PDF rendering are the expensive endpoints this
// protects.
func RateLimit(r rate.Limit, b int) gin.HandlerFunc {
	cl := &clientLimiters{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		burst:    b,
	}
	return func(c *gin.Context) {
		if !cl.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
