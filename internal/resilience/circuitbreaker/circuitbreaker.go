// Package circuitbreaker guards calls to summarization backends, the
// translation cache database and article sites with sony/gobreaker, so a
// failing dependency is rejected fast instead of stalling every request.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name identifies the breaker in logs.
	Name string

	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32

	// Interval is the closed-state period after which counts are reset.
	Interval time.Duration

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration

	// FailureThreshold is the failure ratio that trips the breaker (0.6 = 60%).
	FailureThreshold float64

	// MinRequests is the number of requests needed before the ratio is considered.
	MinRequests uint32

	// IsSuccessful decides whether an error counts against the circuit.
	// When nil, only a nil error is a success.
	IsSuccessful func(err error) bool
}

// InferenceConfig returns the breaker for one summarization backend.
func InferenceConfig(name string) Config {
	return Config{
		Name:             "inference-" + name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// ArticleFetchConfig returns the breaker shared by article extraction.
// Failures there are mostly the remote site's, hence the high threshold.
func ArticleFetchConfig() Config {
	return Config{
		Name:             "article-fetch",
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          5 * time.Minute,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// CircuitBreaker wraps gobreaker.CircuitBreaker.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
}

// New creates a circuit breaker. State changes are logged at WARN.
func New(cfg Config) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		IsSuccessful: cfg.IsSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	return &CircuitBreaker{breaker: gobreaker.NewCircuitBreaker(settings)}
}

// Name returns the breaker name.
func (cb *CircuitBreaker) Name() string {
	return cb.breaker.Name()
}

// State returns the current state.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// IsOpen reports whether calls are currently rejected.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}

// Run executes fn through cb and returns its typed result. An open circuit
// returns gobreaker.ErrOpenState without calling fn.
func Run[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	result, err := cb.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}
	v, _ := result.(T)
	return v, nil
}

// IsUnavailable reports whether err was produced by an open or saturated circuit.
func IsUnavailable(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// IgnoreCallerErrors treats context cancellation as a success so that callers
// giving up do not trip the circuit.
func IgnoreCallerErrors(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}
