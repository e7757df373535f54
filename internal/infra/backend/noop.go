package backend

import (
	"context"
	"strings"
	"unicode/utf8"

	"polysum/internal/budget"
)

// charsPerToken approximates how many characters one output token covers.
const charsPerToken = 4

// NoOp is an extractive backend that returns the leading sentences of the
// input within the token budget. Useful for development and tests when no
// model is deployed.
type NoOp struct {
	guard
}

// NewNoOp creates a NoOp backend for cfg.Lang.
func NewNoOp(cfg Config) *NoOp {
	cfg.Kind = KindNoop
	return &NoOp{guard: newGuard(cfg)}
}

// Generate implements Generator.
func (n *NoOp) Generate(ctx context.Context, text string, params budget.GenerationParams) (string, error) {
	return n.run(ctx, text, params, func(context.Context) (string, error) {
		return leadSentences(text, params.MaxNewTokens*charsPerToken), nil
	})
}

// leadSentences returns whole leading sentences up to limit runes. The first
// sentence is cut at limit when it alone is longer.
func leadSentences(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}

	var out strings.Builder
	count := 0
	start := 0
	for i, r := range text {
		if !isSentenceEnd(r) {
			continue
		}
		end := i + utf8.RuneLen(r)
		sentence := text[start:end]
		n := utf8.RuneCountInString(sentence)
		if count+n > limit {
			break
		}
		out.WriteString(sentence)
		count += n
		start = end
	}

	if out.Len() == 0 {
		runes := []rune(text)
		return strings.TrimSpace(string(runes[:limit]))
	}
	return strings.TrimSpace(out.String())
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}
