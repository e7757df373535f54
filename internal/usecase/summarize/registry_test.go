package summarize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polysum/internal/domain/entity"
)

func TestNewRegistry_RequiresEnglish(t *testing.T) {
	_, err := NewRegistry(map[entity.LanguageTag]Summarizer{
		entity.LangJapanese: &fakeSummarizer{lang: "ja"},
	})
	assert.ErrorIs(t, err, ErrMissingFallback)
}

func TestRegistry_For(t *testing.T) {
	en := &fakeSummarizer{lang: "en"}
	ja := &fakeSummarizer{lang: "ja"}
	reg, err := NewRegistry(map[entity.LanguageTag]Summarizer{"EN": en, "ja": ja})
	require.NoError(t, err)

	tests := []struct {
		lang     entity.LanguageTag
		want     Summarizer
		wantLang entity.LanguageTag
	}{
		{lang: "en", want: en, wantLang: "en"},
		{lang: "ja", want: ja, wantLang: "ja"},
		{lang: "zh", want: en, wantLang: "en"},
		{lang: "", want: en, wantLang: "en"},
	}
	for _, tt := range tests {
		got, gotLang := reg.For(tt.lang)
		assert.Same(t, tt.want, got, "lang %q", tt.lang)
		assert.Equal(t, tt.wantLang, gotLang, "lang %q", tt.lang)
	}

	assert.Equal(t, []entity.LanguageTag{"en", "ja"}, reg.Languages())
}
