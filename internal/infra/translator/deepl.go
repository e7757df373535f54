// Package translator implements the DeepL-compatible translation gateway used to
// pivot source text into a summarization language and to translate summaries.
//
// Successful translations are cached for 24 hours. Rate-limit (429) and
// transient-unavailable (503) responses, as well as network timeouts, are retried
// three times in total with linear 2s/4s sleeps; every other non-200 response
// fails immediately with *UpstreamError.
package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"polysum/internal/domain/entity"
	"polysum/internal/infra/cache"
	"polysum/internal/observability/tracing"
	"polysum/internal/resilience/retry"
)

// maxResponseBytes caps how much of a provider response body is read.
const maxResponseBytes = 1 << 20

// Gateway translates text through a DeepL-compatible HTTP API.
type Gateway struct {
	config      Config
	client      *http.Client
	store       cache.Store
	limiter     *RateLimiter
	retryConfig retry.Config
	group       singleflight.Group
	metrics     MetricsRecorder
}

// NewGateway creates a gateway backed by store.
// A nil client gets one with cfg.Timeout; a nil store gets an in-memory cache.
func NewGateway(cfg Config, store cache.Store, client *http.Client) *Gateway {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if store == nil {
		store = cache.NewMemoryStore()
	}
	return &Gateway{
		config:      cfg,
		client:      client,
		store:       store,
		limiter:     NewRateLimiter(cfg.RateLimit, cfg.RateBurst),
		retryConfig: retry.TranslationConfig(),
		metrics:     NewPrometheusMetrics(),
	}
}

// Available reports whether the gateway has credentials to call the provider.
func (g *Gateway) Available() bool {
	return g.config.HasCredentials()
}

type translateResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// Translate translates text into targetLang. An empty sourceLang lets the
// provider auto-detect the source.
func (g *Gateway) Translate(ctx context.Context, text string, sourceLang, targetLang entity.LanguageTag) (string, error) {
	src := string(entity.NormalizeTag(string(sourceLang)))
	tgt := string(entity.NormalizeTag(string(targetLang)))

	ctx, span := tracing.GetTracer().Start(ctx, "translator.Translate",
		trace.WithAttributes(
			attribute.String("translation.source_lang", src),
			attribute.String("translation.target_lang", tgt),
			attribute.Int("translation.text_length", len(text)),
		))
	defer span.End()

	if !g.config.HasCredentials() {
		span.SetStatus(codes.Error, ErrMissingCredentials.Error())
		return "", ErrMissingCredentials
	}
	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	key := cache.TranslationKey(src, tgt, text)
	cached, ok, err := g.store.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "translation cache lookup failed",
			slog.String("key", key),
			slog.Any("error", err))
	}
	if ok {
		g.metrics.RecordCache(true)
		span.SetAttributes(attribute.Bool("translation.cache_hit", true))
		return cached, nil
	}
	g.metrics.RecordCache(false)
	span.SetAttributes(attribute.Bool("translation.cache_hit", false))

	// The shared call outlives any single caller; each caller only stops
	// waiting for it when its own context ends.
	ch := g.group.DoChan(key, func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.flightTimeout())
		defer cancel()
		return g.translateUncached(flightCtx, key, text, src, tgt)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		err := ctx.Err()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
		return "", res.Err
	}
	if res.Shared {
		slog.DebugContext(ctx, "translation shared with in-flight request", slog.String("key", key))
	}
	return res.Val.(string), nil
}

// flightTimeout bounds one shared provider call including all retries.
func (g *Gateway) flightTimeout() time.Duration {
	perRequest := g.config.Timeout
	if perRequest <= 0 {
		perRequest = DefaultTimeout
	}
	total := time.Duration(g.retryConfig.MaxAttempts) * perRequest
	for attempt := 1; attempt < g.retryConfig.MaxAttempts; attempt++ {
		total += time.Duration(attempt) * g.retryConfig.InitialDelay
	}
	return total
}

// translateUncached calls the provider with retries and stores the result.
func (g *Gateway) translateUncached(ctx context.Context, key, text, src, tgt string) (string, error) {
	cfg := g.retryConfig
	cfg.Retryable = func(err error) bool {
		if ctx.Err() != nil {
			return false
		}
		return isTransient(err)
	}
	cfg.OnRetry = func(int, time.Duration, error) {
		g.metrics.RecordRetry()
	}

	var translated string
	err := retry.WithBackoff(ctx, cfg, func() error {
		if err := g.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		start := time.Now()
		out, err := g.doTranslate(ctx, text, src, tgt)
		g.metrics.RecordRequest(outcomeOf(err), time.Since(start))
		if err != nil {
			return err
		}
		translated = out
		return nil
	})
	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			return "", &RetryExhaustedError{Attempts: exhausted.Attempts, Err: exhausted.Err}
		}
		return "", err
	}

	if err := g.store.Set(ctx, key, translated, g.config.CacheTTL); err != nil {
		slog.WarnContext(ctx, "translation cache store failed",
			slog.String("key", key),
			slog.Any("error", err))
	}

	slog.InfoContext(ctx, "translation completed",
		slog.String("source_lang", src),
		slog.String("target_lang", tgt),
		slog.Int("input_length", len(text)),
		slog.Int("output_length", len(translated)))
	return translated, nil
}

// doTranslate performs a single provider request.
func (g *Gateway) doTranslate(ctx context.Context, text, src, tgt string) (string, error) {
	form := url.Values{}
	form.Set("auth_key", g.config.APIKey)
	form.Set("text", text)
	form.Set("target_lang", strings.ToUpper(tgt))
	if src != "" {
		form.Set("source_lang", strings.ToUpper(src))
	}

	endpoint := strings.TrimRight(g.config.BaseURL, "/") + "/translate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read translation response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return "", &retry.HTTPError{StatusCode: resp.StatusCode, Message: string(body)}
	default:
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed translateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Translations) == 0 {
		return "", ErrMalformedResponse
	}
	return parsed.Translations[0].Text, nil
}

// isTransient reports whether a provider failure counts toward the retry budget.
func isTransient(err error) bool {
	var httpErr *retry.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests ||
			httpErr.StatusCode == http.StatusServiceUnavailable
	}
	return retry.IsTimeout(err)
}

func outcomeOf(err error) string {
	var upstream *UpstreamError
	switch {
	case err == nil:
		return OutcomeSuccess
	case isTransient(err):
		return OutcomeTransient
	case errors.As(err, &upstream), errors.Is(err, ErrMalformedResponse):
		return OutcomeUpstream
	default:
		return OutcomeNetwork
	}
}
