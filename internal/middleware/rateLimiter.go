package middleware

import (
	"sync"

	"github.com/gatherhub/event-manager/internal/errdef"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter limits requests per client IP using a token bucket. It is meant
// for sensitive routes such as sign up and sign in.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
	lock     sync.Mutex
}

func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (r *RateLimiter) limiter(ip string) *rate.Limiter {
	r.lock.Lock()
	defer r.lock.Unlock()

	limiter, ok := r.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(r.limit, r.burst)
		r.limiters[ip] = limiter
	}
	return limiter
}

func (r *RateLimiter) Handle(c *gin.Context) {
	if !r.limiter(c.ClientIP()).Allow() {
		_ = c.Error(errdef.NewTooManyRequests("too many requests, please try again later"))
		c.Abort()
		return
	}
	c.Next()
}
