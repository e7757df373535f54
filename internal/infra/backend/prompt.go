package backend

import (
	"fmt"

	"polysum/internal/budget"
	"polysum/internal/domain/entity"
)

var languageNames = map[entity.LanguageTag]string{
	entity.LangEnglish:  "English",
	entity.LangJapanese: "Japanese",
	entity.LangChinese:  "Chinese",
	entity.LangKorean:   "Korean",
	entity.LangThai:     "Thai",
	entity.LangLao:      "Lao",
	entity.LangKhmer:    "Khmer",
	entity.LangMyanmar:  "Burmese",
}

func languageName(lang entity.LanguageTag) string {
	if name, ok := languageNames[lang]; ok {
		return name
	}
	return string(lang)
}

// buildPrompt turns the token budget into instructions for chat-style models,
// which have no min_new_tokens or beam search controls.
func buildPrompt(lang entity.LanguageTag, text string, params budget.GenerationParams) string {
	return fmt.Sprintf(
		"Summarize the following text in %s. "+
			"Write between %d and %d tokens. "+
			"Do not repeat phrases and do not add information that is not in the text. "+
			"Reply with the summary only.\n\n%s",
		languageName(lang), params.MinNewTokens, params.MaxNewTokens, text)
}
