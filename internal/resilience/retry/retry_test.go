package retry

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"
)

// noSleep records requested waits without blocking.
func noSleep(waits *[]time.Duration) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return ctx.Err()
	}
}

func TestWithBackoff(t *testing.T) {
	serverErr := &HTTPError{StatusCode: 503, Message: "Service Unavailable"}
	badRequest := &HTTPError{StatusCode: 400, Message: "Bad Request"}

	tests := []struct {
		name         string
		failures     int   // attempts that fail before success
		failWith     error // error returned by failing attempts
		wantAttempts int
		wantErr      error
		wantExhaust  bool
	}{
		{name: "first attempt succeeds", wantAttempts: 1},
		{name: "succeeds on third attempt", failures: 2, failWith: serverErr, wantAttempts: 3},
		{name: "exhausted", failures: 10, failWith: serverErr, wantAttempts: 3, wantErr: serverErr, wantExhaust: true},
		{name: "non-retryable stops immediately", failures: 10, failWith: badRequest, wantAttempts: 1, wantErr: badRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var waits []time.Duration
			cfg := Config{
				MaxAttempts:  3,
				InitialDelay: 10 * time.Millisecond,
				Multiplier:   2.0,
				Sleep:        noSleep(&waits),
			}

			attempts := 0
			err := WithBackoff(context.Background(), cfg, func() error {
				attempts++
				if attempts <= tt.failures {
					return tt.failWith
				}
				return nil
			})

			if attempts != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", attempts, tt.wantAttempts)
			}
			if len(waits) != max(tt.wantAttempts-1, 0) {
				t.Errorf("waits = %v, want %d entries", waits, tt.wantAttempts-1)
			}
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error %v does not wrap %v", err, tt.wantErr)
			}
			var exhausted *ExhaustedError
			if got := errors.As(err, &exhausted); got != tt.wantExhaust {
				t.Errorf("ExhaustedError = %v, want %v", got, tt.wantExhaust)
			}
		})
	}
}

func TestWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxAttempts: 5, InitialDelay: time.Hour}

	attempts := 0
	err := WithBackoff(ctx, cfg, func() error {
		attempts++
		cancel()
		return &HTTPError{StatusCode: 500, Message: "Server Error"}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt before cancellation, got %d", attempts)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{
			name:      "nil error",
			err:       nil,
			retryable: false,
		},
		{
			name:      "context canceled",
			err:       context.Canceled,
			retryable: false,
		},
		{
			name:      "context deadline exceeded",
			err:       context.DeadlineExceeded,
			retryable: false,
		},
		{
			name:      "HTTP 500 error",
			err:       &HTTPError{StatusCode: 500, Message: "Internal Server Error"},
			retryable: true,
		},
		{
			name:      "HTTP 502 error",
			err:       &HTTPError{StatusCode: 502, Message: "Bad Gateway"},
			retryable: true,
		},
		{
			name:      "HTTP 503 error",
			err:       &HTTPError{StatusCode: 503, Message: "Service Unavailable"},
			retryable: true,
		},
		{
			name:      "HTTP 429 error",
			err:       &HTTPError{StatusCode: 429, Message: "Too Many Requests"},
			retryable: true,
		},
		{
			name:      "HTTP 408 error",
			err:       &HTTPError{StatusCode: 408, Message: "Request Timeout"},
			retryable: true,
		},
		{
			name:      "HTTP 400 error",
			err:       &HTTPError{StatusCode: 400, Message: "Bad Request"},
			retryable: false,
		},
		{
			name:      "HTTP 404 error",
			err:       &HTTPError{StatusCode: 404, Message: "Not Found"},
			retryable: false,
		},
		{
			name:      "ECONNREFUSED",
			err:       syscall.ECONNREFUSED,
			retryable: true,
		},
		{
			name:      "ECONNRESET",
			err:       syscall.ECONNRESET,
			retryable: true,
		},
		{
			name:      "ETIMEDOUT",
			err:       syscall.ETIMEDOUT,
			retryable: true,
		},
		{
			name:      "ENETUNREACH",
			err:       syscall.ENETUNREACH,
			retryable: true,
		},
		{
			name:      "generic error",
			err:       errors.New("some error"),
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsRetryable(tt.err)
			if result != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", result, tt.retryable)
			}
		})
	}
}

func TestTranslationConfig(t *testing.T) {
	cfg := TranslationConfig()

	if cfg.MaxAttempts != 3 {
		t.Errorf("expected MaxAttempts=3, got %d", cfg.MaxAttempts)
	}
	if !cfg.Linear {
		t.Error("expected linear backoff")
	}
	if got := cfg.delay(1); got != 2*time.Second {
		t.Errorf("expected first delay 2s, got %v", got)
	}
	if got := cfg.delay(2); got != 4*time.Second {
		t.Errorf("expected second delay 4s, got %v", got)
	}
}

func TestInferenceConfig(t *testing.T) {
	cfg := InferenceConfig()

	if cfg.MaxAttempts != 3 {
		t.Errorf("expected MaxAttempts=3, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialDelay != 2*time.Second {
		t.Errorf("expected InitialDelay=2s, got %v", cfg.InitialDelay)
	}
}

func TestConfig_DelayExponentialCapped(t *testing.T) {
	cfg := Config{InitialDelay: time.Second, MaxDelay: 5 * time.Second, Multiplier: 2}

	want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second}
	for i, w := range want {
		if got := cfg.delay(i + 1); got != w {
			t.Errorf("delay(%d) = %v, want %v", i+1, got, w)
		}
	}
}

func TestHTTPError_Error(t *testing.T) {
	err := &HTTPError{StatusCode: 500, Message: "Internal Server Error"}
	expected := "HTTP 500: Internal Server Error"

	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestAddJitter(t *testing.T) {
	duration := 100 * time.Millisecond
	jitterFraction := 0.2

	// Run multiple times to check jitter is random
	results := make(map[time.Duration]bool)
	for i := 0; i < 10; i++ {
		result := addJitter(duration, jitterFraction)

		// Result should be between duration and duration*(1+jitterFraction)
		minDuration := duration
		maxDuration := time.Duration(float64(duration) * 1.2)

		if result < minDuration || result > maxDuration {
			t.Errorf("expected result between %v and %v, got %v", minDuration, maxDuration, result)
		}

		results[result] = true
	}

	// Should have some variation (not all the same)
	if len(results) < 2 {
		t.Error("expected jitter to produce varied results")
	}
}

func TestAddJitter_ZeroFraction(t *testing.T) {
	duration := 100 * time.Millisecond
	result := addJitter(duration, 0.0)

	if result != duration {
		t.Errorf("expected no jitter with fraction=0, got %v instead of %v", result, duration)
	}
}

func TestWithBackoff_LinearSleeps(t *testing.T) {
	var sleeps []time.Duration
	var retried []int
	cfg := TranslationConfig()
	cfg.Sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	cfg.OnRetry = func(attempt int, _ time.Duration, _ error) {
		retried = append(retried, attempt)
	}

	attempts := 0
	err := WithBackoff(context.Background(), cfg, func() error {
		attempts++
		if attempts < 3 {
			return &HTTPError{StatusCode: 503, Message: "unavailable"}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(sleeps) != 2 || sleeps[0] != 2*time.Second || sleeps[1] != 4*time.Second {
		t.Errorf("expected sleeps [2s 4s], got %v", sleeps)
	}
	if len(retried) != 2 || retried[0] != 1 || retried[1] != 2 {
		t.Errorf("expected OnRetry for attempts [1 2], got %v", retried)
	}
}

func TestWithBackoff_CustomClassifier(t *testing.T) {
	onlyTeapot := func(err error) bool {
		var httpErr *HTTPError
		return errors.As(err, &httpErr) && httpErr.StatusCode == 418
	}
	cfg := Config{
		MaxAttempts: 3,
		Retryable:   onlyTeapot,
		Sleep:       func(context.Context, time.Duration) error { return nil },
	}

	attempts := 0
	err := WithBackoff(context.Background(), cfg, func() error {
		attempts++
		return &HTTPError{StatusCode: 500, Message: "boom"}
	})

	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
	var exhausted *ExhaustedError
	if errors.As(err, &exhausted) {
		t.Error("non-retryable error must not be reported as exhausted")
	}
}

func TestWithBackoff_SleepError(t *testing.T) {
	cfg := Config{
		MaxAttempts: 3,
		Sleep:       func(context.Context, time.Duration) error { return context.DeadlineExceeded },
	}

	err := WithBackoff(context.Background(), cfg, func() error {
		return &HTTPError{StatusCode: 429, Message: "slow down"}
	})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsTimeout(t *testing.T) {
	if !IsTimeout(fmt.Errorf("post: %w", timeoutErr{})) {
		t.Error("expected wrapped net timeout to be detected")
	}
	if IsTimeout(errors.New("plain")) {
		t.Error("plain error is not a timeout")
	}
}
