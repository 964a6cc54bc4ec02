package atlassian

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// rateLimiter paces outgoing requests and allows runtime adjustment when the
// service reports its remaining quota.
type rateLimiter struct {
	limiter *rate.Limiter
	mu      sync.RWMutex
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	return &rateLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// wait blocks until the limiter allows a request or the context is canceled.
func (rl *rateLimiter) wait(ctx context.Context) error {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return rl.limiter.Wait(ctx)
}

// updateLimits adjusts requests per second and burst, typically from
// X-RateLimit response headers.
func (rl *rateLimiter) updateLimits(rps float64, burst int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.limiter.SetLimit(rate.Limit(rps))
	rl.limiter.SetBurst(burst)
}
