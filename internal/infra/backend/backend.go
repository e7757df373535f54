// Package backend provides the summarization model backends: a TGI-compatible
// HTTP inference server, an AWS Lambda function, hosted LLM APIs (OpenAI,
// Claude, Gemini) and a no-op extractive backend for development.
//
// Every backend wraps its provider call in the same guard: a per-call timeout,
// retry with exponential backoff, a circuit breaker per backend, Prometheus
// metrics and an OpenTelemetry span.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"polysum/internal/budget"
	"polysum/internal/observability/tracing"
	"polysum/internal/resilience/circuitbreaker"
	"polysum/internal/resilience/retry"
	"polysum/internal/utils/text"
)

// ErrUnavailable is returned while a backend's circuit breaker is open.
var ErrUnavailable = errors.New("backend unavailable: circuit breaker open")

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("backend returned empty response")

// Generator produces a summary of text under the given generation parameters.
type Generator interface {
	Generate(ctx context.Context, text string, params budget.GenerationParams) (string, error)

	// Name identifies the backend in logs, metrics and health checks.
	Name() string

	// CircuitOpen reports whether the backend currently rejects requests.
	CircuitOpen() bool
}

// guard runs a single provider call with timeout, retry, circuit breaker,
// metrics and tracing.
type guard struct {
	name           string
	timeout        time.Duration
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	metrics        MetricsRecorder
}

func newGuard(cfg Config) guard {
	name := string(cfg.Kind) + "-" + string(cfg.Lang)
	cbConfig := circuitbreaker.InferenceConfig(name)
	cbConfig.IsSuccessful = circuitbreaker.IgnoreCallerErrors
	return guard{
		name:           name,
		timeout:        cfg.Timeout,
		circuitBreaker: circuitbreaker.New(cbConfig),
		retryConfig:    retry.InferenceConfig(),
		metrics:        NewPrometheusMetrics(),
	}
}

// Name returns the backend name ("<kind>-<lang>").
func (g *guard) Name() string {
	return g.name
}

// CircuitOpen reports whether the backend circuit breaker is open.
func (g *guard) CircuitOpen() bool {
	return g.circuitBreaker.IsOpen()
}

func (g *guard) run(ctx context.Context, input string, params budget.GenerationParams, call func(context.Context) (string, error)) (string, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "backend.Generate",
		trace.WithAttributes(
			attribute.String("backend.name", g.name),
			attribute.Int("backend.input_length", text.CountRunes(input)),
			attribute.Int("backend.min_new_tokens", params.MinNewTokens),
			attribute.Int("backend.max_new_tokens", params.MaxNewTokens),
		))
	defer span.End()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	var summary string
	err := retry.WithBackoff(ctx, g.retryConfig, func() error {
		result, err := circuitbreaker.Run(g.circuitBreaker, func() (string, error) {
			return call(ctx)
		})
		if err != nil {
			if circuitbreaker.IsUnavailable(err) {
				slog.WarnContext(ctx, "inference circuit breaker open, request rejected",
					slog.String("backend", g.name),
					slog.String("state", g.circuitBreaker.State().String()))
				return fmt.Errorf("%w: %s", ErrUnavailable, g.name)
			}
			return err
		}
		summary = result
		return nil
	})
	duration := time.Since(start)
	g.metrics.RecordGeneration(g.name, err == nil, duration)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "generation failed",
			slog.String("backend", g.name),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return "", fmt.Errorf("%s generate: %w", g.name, err)
	}

	length := text.CountRunes(summary)
	g.metrics.RecordOutputLength(g.name, length)
	slog.InfoContext(ctx, "generation completed",
		slog.String("backend", g.name),
		slog.Int("summary_length", length),
		slog.Int("max_new_tokens", params.MaxNewTokens),
		slog.Duration("duration", duration))
	return summary, nil
}
