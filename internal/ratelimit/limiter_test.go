package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestIntervalLimiter_FirstRequestImmediate(t *testing.T) {
	l := NewIntervalLimiter(time.Second)
	start := time.Now()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first Wait blocked for %v", elapsed)
	}
}

func TestIntervalLimiter_EnforcesInterval(t *testing.T) {
	interval := 50 * time.Millisecond
	l := NewIntervalLimiter(interval)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	// First passes immediately, the next two wait one interval each.
	if elapsed := time.Since(start); elapsed < 2*interval {
		t.Errorf("three requests took %v, want at least %v", elapsed, 2*interval)
	}
}

func TestIntervalLimiter_ZeroIntervalNeverBlocks(t *testing.T) {
	l := NewIntervalLimiter(0)
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("zero-interval limiter blocked for %v", elapsed)
	}
}
