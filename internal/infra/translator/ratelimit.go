package translator

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter paces outbound provider requests with a token bucket.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter allowing requestsPerSecond with the given burst.
// A non-positive rate disables limiting.
//
// Example:
//
//	limiter := NewRateLimiter(2.0, 5)  // 2 req/s with burst of 5
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	r := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		r = rate.Inf
	}
	return &RateLimiter{limiter: rate.NewLimiter(r, max(burst, 1))}
}

// Wait blocks until a token is available or the context is canceled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
