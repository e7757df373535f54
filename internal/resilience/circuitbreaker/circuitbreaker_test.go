package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func testConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

func fail(cb *CircuitBreaker, err error, n int) {
	for i := 0; i < n; i++ {
		_, _ = Run(cb, func() (struct{}, error) { return struct{}{}, err })
	}
}

func TestRun_TypedResult(t *testing.T) {
	cb := New(testConfig("typed"))

	got, err := Run(cb, func() (string, error) { return "summary", nil })
	if err != nil || got != "summary" {
		t.Errorf("expected (summary, nil), got (%q, %v)", got, err)
	}

	testErr := errors.New("boom")
	got, err = Run(cb, func() (string, error) { return "partial", testErr })
	if !errors.Is(err, testErr) || got != "" {
		t.Errorf("expected zero value and boom, got (%q, %v)", got, err)
	}
	if cb.Name() != "typed" {
		t.Errorf("expected name typed, got %q", cb.Name())
	}
}

func TestCircuitBreaker_Trips(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		successes int
		wantOpen  bool
	}{
		{name: "below min requests", failures: 4, wantOpen: false},
		{name: "all failures", failures: 5, wantOpen: true},
		{name: "ratio below threshold", failures: 3, successes: 3, wantOpen: false},
		{name: "ratio above threshold", failures: 4, successes: 1, wantOpen: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := New(testConfig(tt.name))
			for i := 0; i < tt.successes; i++ {
				_, _ = Run(cb, func() (int, error) { return 1, nil })
			}
			fail(cb, errors.New("down"), tt.failures)

			if cb.IsOpen() != tt.wantOpen {
				t.Errorf("IsOpen() = %v, want %v (state %v)", cb.IsOpen(), tt.wantOpen, cb.State())
			}
		})
	}
}

func TestCircuitBreaker_OpenRejectsWithoutCalling(t *testing.T) {
	cb := New(testConfig("open"))
	fail(cb, errors.New("down"), 5)

	called := false
	_, err := Run(cb, func() (int, error) {
		called = true
		return 0, nil
	})

	if called {
		t.Error("fn must not run while the circuit is open")
	}
	if !errors.Is(err, gobreaker.ErrOpenState) || !IsUnavailable(err) {
		t.Errorf("expected open-state error, got %v", err)
	}
	if IsUnavailable(errors.New("down")) {
		t.Error("plain errors are not circuit errors")
	}
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	cfg := testConfig("recover")
	cfg.Timeout = 50 * time.Millisecond
	cb := New(cfg)
	fail(cb, errors.New("down"), 5)
	if !cb.IsOpen() {
		t.Fatalf("circuit should be open, got %v", cb.State())
	}

	time.Sleep(100 * time.Millisecond)

	if _, err := Run(cb, func() (int, error) { return 1, nil }); err != nil {
		t.Fatalf("trial request failed: %v", err)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected closed after a successful trial, got %v", cb.State())
	}
}

func TestIgnoreCallerErrors(t *testing.T) {
	cfg := testConfig("caller")
	cfg.IsSuccessful = IgnoreCallerErrors
	cb := New(cfg)

	fail(cb, context.Canceled, 10)
	if cb.IsOpen() {
		t.Error("canceled calls must not open the circuit")
	}

	cb = New(cfg)
	fail(cb, context.DeadlineExceeded, 5)
	if !cb.IsOpen() {
		t.Error("deadline exceeded counts as a failure")
	}
}

func TestPresetConfigs(t *testing.T) {
	tests := []struct {
		cfg       Config
		name      string
		threshold float64
		timeout   time.Duration
	}{
		{cfg: InferenceConfig("noop-en"), name: "inference-noop-en", threshold: 0.6, timeout: time.Minute},
		{cfg: ArticleFetchConfig(), name: "article-fetch", threshold: 0.8, timeout: 5 * time.Minute},
		{cfg: DBConfig(), name: "cache-db", threshold: 1.0, timeout: 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cfg.Name != tt.name {
				t.Errorf("name = %q, want %q", tt.cfg.Name, tt.name)
			}
			if tt.cfg.FailureThreshold != tt.threshold {
				t.Errorf("threshold = %v, want %v", tt.cfg.FailureThreshold, tt.threshold)
			}
			if tt.cfg.Timeout != tt.timeout {
				t.Errorf("timeout = %v, want %v", tt.cfg.Timeout, tt.timeout)
			}
			if tt.cfg.MinRequests != 5 {
				t.Errorf("min requests = %d, want 5", tt.cfg.MinRequests)
			}
		})
	}
}
