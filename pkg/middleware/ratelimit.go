package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"kairos/pkg/utils"
)

// RateLimitMiddleware enforces a per-client-IP token bucket. Limiters are
// kept in-process; a restart resets them, which is acceptable for a
// single-instance deployment.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[ip]
		if !ok {
			l = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
			limiters[ip] = l
		}
		return l
	}

	return func(c *gin.Context) {
		l := limiterFor(c.ClientIP())

		c.Writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(perMinute))
		c.Writer.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(l.Tokens())))

		if !l.Allow() {
			utils.RespondError(c, http.StatusTooManyRequests, "Too many requests. Please try again in a minute.")
			c.Abort()
			return
		}

		c.Next()
	}
}
