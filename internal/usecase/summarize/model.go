package summarize

import (
	"context"

	"polysum/internal/budget"
	"polysum/internal/chunker"
	"polysum/internal/domain/entity"
	"polysum/internal/observability/metrics"
	"polysum/internal/profile"
	"polysum/internal/utils/text"
)

// ModelSummarizer drives one language's backend: it sizes each call with a
// token budget, chunks inputs longer than the model window and normalizes
// the generated text.
type ModelSummarizer struct {
	lang           entity.LanguageTag
	generator      Generator
	tokenizer      chunker.Tokenizer
	maxInputTokens int
	profiles       *profile.Registry
}

// NewModelSummarizer creates a summarizer for lang. A maxInputTokens of zero
// sends every input to the backend in one call.
func NewModelSummarizer(
	lang entity.LanguageTag,
	generator Generator,
	tokenizer chunker.Tokenizer,
	maxInputTokens int,
	profiles *profile.Registry,
) *ModelSummarizer {
	if profiles == nil {
		profiles = profile.NewDefaultRegistry()
	}
	return &ModelSummarizer{
		lang:           lang,
		generator:      generator,
		tokenizer:      tokenizer,
		maxInputTokens: maxInputTokens,
		profiles:       profiles,
	}
}

// Lang returns the language the summarizer writes in.
func (m *ModelSummarizer) Lang() entity.LanguageTag {
	return m.lang
}

// Summarize implements Summarizer.
func (m *ModelSummarizer) Summarize(ctx context.Context, input string, mode entity.LengthMode) (string, error) {
	if !mode.Valid() {
		return "", &entity.InvalidModeError{Mode: string(mode)}
	}

	calls := 0
	out, err := chunker.SummarizeLong(ctx, input, mode, m.lang, m.maxInputTokens, m.tokenizer,
		func(ctx context.Context, chunk string, mode entity.LengthMode, lang entity.LanguageTag) (string, error) {
			calls++
			return m.summarizeOne(ctx, chunk, mode, lang)
		})
	if err != nil {
		return "", err
	}

	// A chunked run makes one call per chunk plus the final pass.
	metrics.RecordChunks(max(calls-1, 1))
	return out, nil
}

// summarizeOne sizes and runs a single backend call.
func (m *ModelSummarizer) summarizeOne(ctx context.Context, input string, mode entity.LengthMode, lang entity.LanguageTag) (string, error) {
	n := len(m.tokenizer.Encode(input))
	b, err := budget.Compute(n, mode, m.profiles.Resolve(lang, input))
	if err != nil {
		return "", err
	}
	metrics.RecordInputTokens(string(lang), n)

	out, err := m.generator.Generate(ctx, input, b.Params())
	if err != nil {
		return "", err
	}
	return text.Normalize(out), nil
}
