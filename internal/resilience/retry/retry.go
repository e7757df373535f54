// Package retry provides retry logic with linear or exponential backoff and jitter.
// It helps handle transient failures gracefully by automatically retrying failed operations.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Config holds the configuration for retry logic.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first one
	MaxAttempts int

	// InitialDelay is the delay before the first retry
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries (0 means no cap)
	MaxDelay time.Duration

	// Multiplier is the multiplier for exponential backoff
	Multiplier float64

	// JitterFraction is the fraction of delay to add as random jitter (0.0 to 1.0)
	JitterFraction float64

	// Linear makes the n-th wait InitialDelay*n instead of growing by Multiplier
	Linear bool

	// Retryable classifies errors. IsRetryable is used when nil.
	Retryable func(error) bool

	// Sleep waits between attempts. A context-aware timer is used when nil.
	Sleep func(ctx context.Context, d time.Duration) error

	// OnRetry, if set, is called before every wait.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// TranslationConfig returns the configuration for translation provider calls:
// three attempts in total, waiting 2s then 4s, without jitter.
func TranslationConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 2 * time.Second,
		Linear:       true,
	}
}

// InferenceConfig returns configuration for model inference calls.
// Moderate retry due to cost considerations.
func InferenceConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   2 * time.Second,
		MaxDelay:       10 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// ExhaustedError is returned when every attempt failed with a retryable error.
type ExhaustedError struct {
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("max retry attempts (%d) exceeded: %v", e.Attempts, e.Err)
}

// Unwrap returns the last attempt's error.
func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// WithBackoff executes fn until it succeeds, returns a non-retryable error,
// or MaxAttempts is reached. Non-retryable errors are returned unchanged;
// running out of attempts returns *ExhaustedError wrapping the last error.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	classify := cfg.Retryable
	if classify == nil {
		classify = IsRetryable
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	attempts := max(cfg.MaxAttempts, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()

		if lastErr == nil {
			if attempt > 1 {
				slog.InfoContext(ctx, "operation succeeded after retry",
					slog.Int("attempt", attempt))
			}
			return nil
		}

		if !classify(lastErr) {
			slog.WarnContext(ctx, "non-retryable error, aborting",
				slog.Int("attempt", attempt),
				slog.Any("error", lastErr))
			return lastErr
		}

		// Don't wait after last attempt
		if attempt == attempts {
			break
		}

		delay := cfg.delay(attempt)
		slog.WarnContext(ctx, "operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Duration("delay", delay),
			slog.Any("error", lastErr))
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, delay, lastErr)
		}

		if err := sleep(ctx, delay); err != nil {
			return fmt.Errorf("retry aborted: %w", err)
		}
	}

	return &ExhaustedError{Attempts: attempts, Err: lastErr}
}

// delay returns the wait after the given failed attempt (1-based).
func (c Config) delay(attempt int) time.Duration {
	var d time.Duration
	if c.Linear {
		d = c.InitialDelay * time.Duration(attempt)
	} else {
		mult := c.Multiplier
		if mult <= 0 {
			mult = 1
		}
		d = time.Duration(float64(c.InitialDelay) * math.Pow(mult, float64(attempt-1)))
	}
	if c.MaxDelay > 0 && d > c.MaxDelay {
		d = c.MaxDelay
	}
	return addJitter(d, c.JitterFraction)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRetryable determines if an error is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context errors are not retryable
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if IsTimeout(err) {
		return true
	}

	// Syscall errors
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	// HTTP status codes
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		// 5xx server errors are retryable
		if httpErr.StatusCode >= 500 && httpErr.StatusCode < 600 {
			return true
		}
		// 429 Too Many Requests is retryable
		if httpErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		// 408 Request Timeout is retryable
		if httpErr.StatusCode == http.StatusRequestTimeout {
			return true
		}
	}

	return false
}

// IsTimeout reports whether err is a network-level timeout.
func IsTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// addJitter adds random jitter to a duration to prevent thundering herd.
func addJitter(duration time.Duration, jitterFraction float64) time.Duration {
	if jitterFraction <= 0 {
		return duration
	}
	if jitterFraction > 1.0 {
		jitterFraction = 1.0
	}
	// #nosec G404 -- Using math/rand is acceptable for jitter calculation.
	// Cryptographic randomness is not required for retry backoff jitter.
	jitter := time.Duration(rand.Float64() * float64(duration) * jitterFraction)
	return duration + jitter
}
