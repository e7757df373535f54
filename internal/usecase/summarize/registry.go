package summarize

import (
	"errors"
	"slices"

	"polysum/internal/domain/entity"
)

// FallbackLang is used for languages without a dedicated summarizer.
const FallbackLang = entity.LangEnglish

// ErrMissingFallback is returned when a registry has no English summarizer.
var ErrMissingFallback = errors.New("summarizer registry requires an English summarizer")

// Registry maps summarization languages to summarizers. It is read-only
// after construction and safe for concurrent use.
type Registry struct {
	byLang map[entity.LanguageTag]Summarizer
}

// NewRegistry builds a registry. An English summarizer is required because
// every unsupported language falls back to it.
func NewRegistry(summarizers map[entity.LanguageTag]Summarizer) (*Registry, error) {
	byLang := make(map[entity.LanguageTag]Summarizer, len(summarizers))
	for lang, s := range summarizers {
		byLang[entity.NormalizeTag(string(lang))] = s
	}
	if _, ok := byLang[FallbackLang]; !ok {
		return nil, ErrMissingFallback
	}
	return &Registry{byLang: byLang}, nil
}

// For returns the summarizer for lang and the language it actually writes
// in, which is FallbackLang when lang has no summarizer of its own.
func (r *Registry) For(lang entity.LanguageTag) (Summarizer, entity.LanguageTag) {
	if s, ok := r.byLang[lang]; ok {
		return s, lang
	}
	return r.byLang[FallbackLang], FallbackLang
}

// Languages lists the registered languages in sorted order.
func (r *Registry) Languages() []entity.LanguageTag {
	langs := make([]entity.LanguageTag, 0, len(r.byLang))
	for lang := range r.byLang {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}
