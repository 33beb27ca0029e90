package providers

import (
	"context"
	"time"
)

// RateLimiter enforces a minimum interval between oracle calls. It is owned
// by the single run control flow; there are no concurrent callers.
type RateLimiter struct {
	minInterval time.Duration
	lastCall    time.Time
}

// NewRateLimiter creates a limiter allowing callsPerMinute oracle calls.
// A non-positive value disables limiting.
func NewRateLimiter(callsPerMinute int) *RateLimiter {
	if callsPerMinute <= 0 {
		return &RateLimiter{}
	}
	return &RateLimiter{minInterval: time.Minute / time.Duration(callsPerMinute)}
}

// Wait sleeps until the minimum interval since the previous call has
// elapsed, then records the call time. Returns early on context cancel.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r.minInterval > 0 && !r.lastCall.IsZero() {
		if wait := r.minInterval - time.Since(r.lastCall); wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	r.lastCall = time.Now()
	return nil
}
