package translator

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials is returned when no provider API key is configured.
var ErrMissingCredentials = errors.New("translator: missing provider credentials")

// ErrMalformedResponse is returned when a 200 response carries no translation.
var ErrMalformedResponse = errors.New("translator: malformed provider response")

// UpstreamError is a non-retryable provider failure.
type UpstreamError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("translator: upstream error %d: %s", e.StatusCode, e.Body)
}

// RetryExhaustedError reports a transient failure that persisted through every attempt.
type RetryExhaustedError struct {
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("translator: retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the last attempt's error.
func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}
