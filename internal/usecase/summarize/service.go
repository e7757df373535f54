package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"polysum/internal/domain/entity"
	"polysum/internal/langdetect"
	"polysum/internal/observability/logging"
	"polysum/internal/observability/metrics"
	"polysum/internal/observability/tracing"
)

var (
	// ErrEmptyText is returned when there is nothing to summarize.
	ErrEmptyText = &entity.ValidationError{Field: "text", Message: "is required"}

	// ErrNoTranslator is returned when a request needs translation and the
	// service was built without a translator.
	ErrNoTranslator = errors.New("translation required but no translator is configured")
)

// Service is the single entry point for routed summarization.
type Service struct {
	summarizers *Registry
	translator  Translator
}

// NewService creates a Service. translator may be nil when only English and
// Japanese input is expected; pivoting then fails with an error.
func NewService(summarizers *Registry, translator Translator) *Service {
	return &Service{
		summarizers: summarizers,
		translator:  translator,
	}
}

// RouteAndSummarize detects the language of raw, summarizes it natively or
// through a pivot language, and translates the summary to target when target
// is set and differs from the summarization language.
//
// Returns *entity.InvalidModeError for an unknown mode before any external call.
// Translation and backend errors are returned unchanged in the error chain.
func (s *Service) RouteAndSummarize(ctx context.Context, raw string, target entity.LanguageTag, mode entity.LengthMode) (*entity.SummaryResult, error) {
	if !mode.Valid() {
		return nil, &entity.InvalidModeError{Mode: string(mode)}
	}
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyText
	}

	logger := logging.WithRequestID(ctx, slog.Default())
	start := time.Now()

	decision, summarizer := s.plan(langdetect.Detect(raw))
	summaryLang := decision.SummarySourceLang

	ctx, span := tracing.GetTracer().Start(ctx, "summarize.RouteAndSummarize",
		trace.WithAttributes(
			attribute.String("summary.detected_lang", string(decision.DetectedLang)),
			attribute.String("summary.pivot_lang", string(decision.PivotLang)),
			attribute.String("summary.source_lang", string(summaryLang)),
			attribute.String("summary.mode", string(mode)),
		))
	defer span.End()

	result, err := s.routeAndSummarize(ctx, raw, decision, summarizer, entity.NormalizeTag(string(target)), mode)
	metrics.RecordSummary(string(decision.DetectedLang), string(decision.PivotLang), string(summaryLang), err == nil, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	logger.InfoContext(ctx, "summarization completed",
		slog.String("detected_lang", string(result.DetectedLang)),
		slog.Bool("pivoted", result.Pivoted),
		slog.String("summary_lang", string(result.SummarySourceLang)),
		slog.String("target_lang", string(result.TargetLang)),
		slog.Bool("translated", result.Translated),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

// plan applies PlanRoute and moves summarization to a language the registry
// serves. When the planned language has no summarizer the input pivots into
// the fallback language instead, so PivotLang always matches
// SummarySourceLang on pivoted routes.
func (s *Service) plan(detected entity.LanguageTag) (entity.RoutingDecision, Summarizer) {
	decision := PlanRoute(detected)
	summarizer, lang := s.summarizers.For(decision.SummarySourceLang)
	if lang == decision.SummarySourceLang {
		return decision, summarizer
	}

	decision.SummarySourceLang = lang
	decision.Pivoted = lang != decision.DetectedLang
	decision.PivotLang = ""
	if decision.Pivoted {
		decision.PivotLang = lang
	}
	return decision, summarizer
}

func (s *Service) routeAndSummarize(
	ctx context.Context,
	raw string,
	decision entity.RoutingDecision,
	summarizer Summarizer,
	target entity.LanguageTag,
	mode entity.LengthMode,
) (*entity.SummaryResult, error) {
	input := raw
	if decision.Pivoted {
		translated, err := s.translate(ctx, raw, decision.DetectedLang, decision.PivotLang)
		if err != nil {
			return nil, fmt.Errorf("translate input to %s: %w", decision.PivotLang, err)
		}
		input = translated
	}

	summary, err := summarizer.Summarize(ctx, input, mode)
	if err != nil {
		return nil, fmt.Errorf("summarize in %s: %w", decision.SummarySourceLang, err)
	}

	result := &entity.SummaryResult{
		RoutingDecision: decision,
		TargetLang:      decision.SummarySourceLang,
		Summary:         summary,
	}
	if target.IsUnknown() || target == decision.SummarySourceLang {
		return result, nil
	}

	translated, err := s.translate(ctx, summary, decision.SummarySourceLang, target)
	if err != nil {
		return nil, fmt.Errorf("translate summary to %s: %w", target, err)
	}
	result.TargetLang = target
	result.Translated = true
	result.Summary = translated
	return result, nil
}

func (s *Service) translate(ctx context.Context, text string, src, tgt entity.LanguageTag) (string, error) {
	if s.translator == nil {
		return "", ErrNoTranslator
	}
	return s.translator.Translate(ctx, text, src, tgt)
}

// Summarize summarizes text in lang without any translation. An empty lang
// is detected from the text and defaults to English. Languages without a
// summarizer use the English one.
func (s *Service) Summarize(ctx context.Context, text string, mode entity.LengthMode, lang entity.LanguageTag) (string, error) {
	if !mode.Valid() {
		return "", &entity.InvalidModeError{Mode: string(mode)}
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}

	lang = entity.NormalizeTag(string(lang))
	if lang.IsUnknown() {
		lang = langdetect.DetectOr(text, entity.LangEnglish)
	}
	summarizer, _ := s.summarizers.For(lang)
	return summarizer.Summarize(ctx, text, mode)
}
