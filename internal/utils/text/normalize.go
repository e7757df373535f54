package text

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

type rewrite struct {
	re   *regexp.Regexp
	repl string
}

// Applied in order after NFKC normalization.
var cleanupRules = []rewrite{
	// decoder line-break placeholders
	{regexp.MustCompile(`(?i)\s*<\s*n\s*>\s*`), "\n"},
	// bracket and pipe noise
	{regexp.MustCompile(`\s*[\[\]{}|]{2,}\s*`), " "},
	// angle-bracket noise
	{regexp.MustCompile(`\s*<{2,}\s*|>{2,}\s*`), " "},
	{regexp.MustCompile(`\s+([,.:;!?%])`), "$1"},
	{regexp.MustCompile(`:(["'])`), ": $1"},
	{regexp.MustCompile(`([(\[{])\s+`), "$1"},
	{regexp.MustCompile(`\s+([)\]}])`), "$1"},
	{regexp.MustCompile(`\s{2,}(["'])`), " $1"},
	{regexp.MustCompile(`(["'])\s{2,}`), "$1 "},
	{regexp.MustCompile(`([.!?]){3,}`), "$1$1"},
	{regexp.MustCompile(`[ \t]{2,}`), " "},
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
}

// maxPasses bounds the fixed-point loop in Normalize.
const maxPasses = 8

// Normalize tidies whitespace and punctuation in generated text without
// changing its wording. It is deterministic and idempotent; the empty string
// is returned unchanged.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	// A single pass can expose new matches for earlier rules ("[ [" becomes "[["),
	// so repeat until the output is stable.
	out := cleanupPass(s)
	for range maxPasses {
		next := cleanupPass(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

// NormalizePtr is Normalize for optional values; nil is returned as is.
func NormalizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	out := Normalize(*s)
	return &out
}

func cleanupPass(s string) string {
	s = norm.NFKC.String(s)
	for _, r := range cleanupRules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return strings.TrimSpace(s)
}
