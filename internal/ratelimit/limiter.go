// Package ratelimit enforces the mandatory pause between consecutive
// outbound requests within a scrape run.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter gates outbound requests.
type Limiter interface {
	// Wait blocks until the next request may proceed. It returns an
	// error only when the context is cancelled first.
	Wait(ctx context.Context) error
}

// IntervalLimiter enforces a fixed minimum interval between requests
// using a token bucket with burst 1: the first request passes
// immediately, every later one waits out the remainder of the
// interval. It is scoped to one run and not shared across runs.
type IntervalLimiter struct {
	limiter *rate.Limiter
}

// NewIntervalLimiter creates a limiter with the given inter-request
// interval. A non-positive interval disables waiting.
func NewIntervalLimiter(interval time.Duration) *IntervalLimiter {
	if interval <= 0 {
		return &IntervalLimiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &IntervalLimiter{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (l *IntervalLimiter) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.limiter.Wait(ctx)
}
