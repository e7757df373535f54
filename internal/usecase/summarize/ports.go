// Package summarize routes raw text of any supported language to a native
// summarization model, pivoting through translation when no model exists
// for the detected language.
package summarize

import (
	"context"

	"polysum/internal/budget"
	"polysum/internal/domain/entity"
)

// Generator is a summarization model backend.
type Generator interface {
	Generate(ctx context.Context, text string, params budget.GenerationParams) (string, error)
}

// Translator translates text between languages.
// An empty sourceLang asks the provider to detect the source.
type Translator interface {
	Translate(ctx context.Context, text string, sourceLang, targetLang entity.LanguageTag) (string, error)
}

// Summarizer summarizes text in the language it was built for.
type Summarizer interface {
	Summarize(ctx context.Context, text string, mode entity.LengthMode) (string, error)
}
