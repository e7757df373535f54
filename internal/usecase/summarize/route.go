package summarize

import (
	"polysum/internal/domain/entity"
)

// nativeLangs are summarized without translation.
var nativeLangs = map[entity.LanguageTag]bool{
	entity.LangEnglish:  true,
	entity.LangJapanese: true,
}

// PlanRoute decides how text detected as detected is summarized. An unknown
// language is treated as English. Korean pivots through Japanese and every
// other non-native language through English.
func PlanRoute(detected entity.LanguageTag) entity.RoutingDecision {
	if detected.IsUnknown() {
		detected = entity.LangEnglish
	}
	if nativeLangs[detected] {
		return entity.RoutingDecision{
			DetectedLang:      detected,
			SummarySourceLang: detected,
		}
	}

	pivot := entity.LangEnglish
	if detected == entity.LangKorean {
		pivot = entity.LangJapanese
	}
	return entity.RoutingDecision{
		DetectedLang:      detected,
		PivotLang:         pivot,
		Pivoted:           true,
		SummarySourceLang: pivot,
	}
}
