// Package retry implements the exponential-backoff retry discipline
// applied to every outbound request.
package retry

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Config defines retry behavior with exponential backoff.
type Config struct {
	MaxAttempts          int           // Total attempts, including the first
	InitialBackoff       time.Duration // Backoff before the second attempt
	MaxBackoff           time.Duration // Backoff ceiling
	Multiplier           float64       // Backoff growth factor
	RetryableStatusCodes []int         // HTTP status codes that trigger a retry
}

// DefaultConfig returns the retry policy used when a source does not
// override it: three attempts, 2s initial backoff, doubling.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
		RetryableStatusCodes: []int{
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

// WithRetry executes fn until it succeeds, fails with a non-retryable
// error, or exhausts the attempt budget. The backoff before attempt
// n+1 is InitialBackoff * Multiplier^n, capped at MaxBackoff. A
// successful attempt returns immediately; a non-retryable error (for
// example a client-error status) returns without consuming further
// budget.
func WithRetry(ctx context.Context, cfg Config, fn func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 0 {
				log.Debug().Int("attempts", attempt+1).Msg("retry succeeded")
			}
			return nil
		}
		lastErr = err

		if !shouldRetry(err, cfg) {
			log.Debug().Err(err).Msg("error is not retryable")
			return err
		}

		if attempt < cfg.MaxAttempts-1 {
			backoff := backoffFor(attempt, cfg)
			log.Debug().
				Int("attempt", attempt+1).
				Int("max_attempts", cfg.MaxAttempts).
				Dur("backoff", backoff).
				Err(err).
				Msg("retrying after backoff")

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	log.Warn().Int("attempts", cfg.MaxAttempts).Err(lastErr).Msg("retry budget exhausted")
	return fmt.Errorf("request failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

func backoffFor(attempt int, cfg Config) time.Duration {
	backoff := float64(cfg.InitialBackoff) * math.Pow(cfg.Multiplier, float64(attempt))
	if backoff > float64(cfg.MaxBackoff) {
		backoff = float64(cfg.MaxBackoff)
	}
	return time.Duration(backoff)
}

func shouldRetry(err error, cfg Config) bool {
	if err == nil {
		return false
	}

	// Status-bearing errors retry only on the configured codes; client
	// errors fail fast.
	if sc, ok := err.(StatusCoder); ok {
		status := sc.GetStatusCode()
		for _, code := range cfg.RetryableStatusCodes {
			if status == code {
				return true
			}
		}
		return false
	}

	if isTimeout(err) {
		return true
	}

	if tempErr, ok := err.(interface{ Temporary() bool }); ok {
		return tempErr.Temporary()
	}

	// Connection-level failures without further classification retry.
	return true
}

func isTimeout(err error) bool {
	if err == context.DeadlineExceeded {
		return true
	}
	if timeoutErr, ok := err.(interface{ Timeout() bool }); ok {
		return timeoutErr.Timeout()
	}
	return false
}

// StatusCoder is implemented by errors carrying an HTTP status code.
type StatusCoder interface {
	GetStatusCode() int
}

// HTTPError represents a non-success HTTP response.
type HTTPError struct {
	StatusCode int
	Status     string
}

func NewHTTPError(statusCode int, status string) HTTPError {
	return HTTPError{StatusCode: statusCode, Status: status}
}

func (e HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

func (e HTTPError) GetStatusCode() int {
	return e.StatusCode
}
