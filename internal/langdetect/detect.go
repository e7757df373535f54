// Package langdetect classifies text into a language tag from the Unicode
// script blocks its characters belong to.
//
// Detection is purely script based: scripts with exclusive ranges (kana,
// hangul) are tested before the broader Han range so that Japanese and
// Korean text containing ideographs is not reported as Chinese. Latin and
// other unlisted scripts yield entity.LangUnknown.
package langdetect

import "polysum/internal/domain/entity"

type runeRange struct {
	lo, hi rune
}

func (r runeRange) contains(c rune) bool {
	return c >= r.lo && c <= r.hi
}

var (
	kanaRange    = runeRange{0x3040, 0x30FF}
	hangulRange  = runeRange{0xAC00, 0xD7AF}
	hanRange     = runeRange{0x4E00, 0x9FFF}
	thaiRange    = runeRange{0x0E00, 0x0E7F}
	laoRange     = runeRange{0x0E80, 0x0EFF}
	khmerRange   = runeRange{0x1780, 0x17FF}
	myanmarRange = runeRange{0x1000, 0x109F}

	// Blocks only matched by the CJK union rule.
	hanExtARange       = runeRange{0x3400, 0x4DBF}
	hanCompatRange     = runeRange{0xF900, 0xFAFF}
	hangulJamoRange    = runeRange{0x1100, 0x11FF}
	halfwidthKanaRange = runeRange{0xFF65, 0xFF9F}
)

type rule struct {
	tag    entity.LanguageTag
	ranges []runeRange
}

// rules is evaluated in order; the first rule with any matching rune wins.
var rules = []rule{
	{entity.LangJapanese, []runeRange{kanaRange}},
	{entity.LangKorean, []runeRange{hangulRange}},
	{entity.LangChinese, []runeRange{hanRange}},
	{entity.LangThai, []runeRange{thaiRange}},
	{entity.LangLao, []runeRange{laoRange}},
	{entity.LangKhmer, []runeRange{khmerRange}},
	{entity.LangMyanmar, []runeRange{myanmarRange}},
	// CJK union fallback, leaning to zh: rarer ideograph, jamo and
	// halfwidth kana blocks not covered above.
	{entity.LangChinese, []runeRange{hanRange, kanaRange, hangulRange, hanExtARange, hanCompatRange, hangulJamoRange, halfwidthKanaRange}},
}

// Detect returns the language tag implied by the scripts present in text,
// or entity.LangUnknown when no supported script is found.
func Detect(text string) entity.LanguageTag {
	if text == "" {
		return entity.LangUnknown
	}
	for _, rl := range rules {
		if containsAny(text, rl.ranges) {
			return rl.tag
		}
	}
	return entity.LangUnknown
}

// DetectOr returns Detect(text), or fallback when nothing is detected.
func DetectOr(text string, fallback entity.LanguageTag) entity.LanguageTag {
	if tag := Detect(text); !tag.IsUnknown() {
		return tag
	}
	return fallback
}

func containsAny(text string, ranges []runeRange) bool {
	for _, c := range text {
		for _, r := range ranges {
			if r.contains(c) {
				return true
			}
		}
	}
	return false
}
