package amazfit

import (
	"context"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// rateLimiter encapsulates local token-bucket limiting applied before each
// outbound request. The upstream API is private and publishes no limits;
// 30 requests per minute keeps bulk fetches below what the official app
// produces during a sync.
type rateLimiter struct {
	limiter        *rate.Limiter
	isAutoLimiting atomic.Bool
}

// newRateLimiter initializes a rate limiter configured for 30 requests per
// minute with a burst of 30, so short ranges complete without waiting.
func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		limiter: rate.NewLimiter(rate.Limit(30.0/60.0), 30),
	}
	rl.isAutoLimiting.Store(true)
	return rl
}

// Wait blocks until a token is available or the context is canceled.
func (rl *rateLimiter) Wait(ctx context.Context) error {
	if !rl.isAutoLimiting.Load() {
		return nil
	}
	return rl.limiter.Wait(ctx)
}

// SetAutoLimiting enables or disables the rate limiter.
func (rl *rateLimiter) SetAutoLimiting(enabled bool) {
	rl.isAutoLimiting.Store(enabled)
}
