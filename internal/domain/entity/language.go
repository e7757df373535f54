// Package entity defines the core domain types of the summarization engine:
// language tags, verbosity modes, routing decisions and summary results,
// along with the domain-specific errors shared across layers.
package entity

import "strings"

// LanguageTag is a lower-case ISO-639-1 style language code.
type LanguageTag string

// Supported language tags. LangUnknown is returned when no script matches.
const (
	LangEnglish  LanguageTag = "en"
	LangJapanese LanguageTag = "ja"
	LangChinese  LanguageTag = "zh"
	LangKorean   LanguageTag = "ko"
	LangThai     LanguageTag = "th"
	LangLao      LanguageTag = "lo"
	LangKhmer    LanguageTag = "km"
	LangMyanmar  LanguageTag = "my"
	LangUnknown  LanguageTag = ""
)

// NormalizeTag lower-cases and trims a caller-supplied language code.
// Codes outside the supported set are carried through unchanged.
func NormalizeTag(s string) LanguageTag {
	return LanguageTag(strings.ToLower(strings.TrimSpace(s)))
}

// String returns the tag as a plain string.
func (t LanguageTag) String() string {
	return string(t)
}

// IsUnknown reports whether the tag carries no language.
func (t LanguageTag) IsUnknown() bool {
	return t == LangUnknown
}

// LengthMode is the requested summary verbosity.
type LengthMode string

// Verbosity modes.
const (
	ModeShort  LengthMode = "short"
	ModeMedium LengthMode = "medium"
	ModeLong   LengthMode = "long"
)

// DefaultMode is used when a caller does not ask for a specific verbosity.
const DefaultMode = ModeMedium

// Modes lists every valid mode in ascending verbosity.
func Modes() []LengthMode {
	return []LengthMode{ModeShort, ModeMedium, ModeLong}
}

// Valid reports whether m is one of short, medium or long.
func (m LengthMode) Valid() bool {
	switch m {
	case ModeShort, ModeMedium, ModeLong:
		return true
	}
	return false
}

// ParseLengthMode converts a raw string into a LengthMode.
// Unknown values are rejected with *InvalidModeError and never coerced.
func ParseLengthMode(s string) (LengthMode, error) {
	m := LengthMode(s)
	if !m.Valid() {
		return "", &InvalidModeError{Mode: s}
	}
	return m, nil
}
