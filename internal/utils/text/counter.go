// Package text provides text utilities shared by the summarization pipeline:
// rune counting for character-window arithmetic and the cosmetic cleanup
// applied to generated summaries.
package text

import "unicode/utf8"

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Multi-byte characters (Japanese, Korean, Thai, emoji) count as one each.
//
//	CountRunes("hello")      // 5
//	CountRunes("こんにちは")  // 5
//	CountRunes("")           // 0
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// RunesAfter returns the number of runes in s following byte offset i.
// i must fall on a rune boundary.
func RunesAfter(s string, i int) int {
	if i < 0 {
		return CountRunes(s)
	}
	if i >= len(s) {
		return 0
	}
	return utf8.RuneCountInString(s[i:])
}
