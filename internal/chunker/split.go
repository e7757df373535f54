// Package chunker splits over-length input into model-sized chunks and
// recombines their summaries.
package chunker

import (
	"strings"

	"polysum/internal/utils/text"
)

// WindowChars is how far back from a chunk's end, in runes, a sentence or
// clause boundary is searched for before falling back to a hard cut.
const WindowChars = 80

// Chunk is one segment of a Plan.
type Chunk struct {
	Text   string
	Tokens int
}

// Plan is an ordered, order-preserving partition of a source text.
type Plan struct {
	Chunks []Chunk
}

// Texts returns the chunk texts in order.
func (p Plan) Texts() []string {
	out := make([]string, len(p.Chunks))
	for i, c := range p.Chunks {
		out[i] = c.Text
	}
	return out
}

// Len returns the number of chunks.
func (p Plan) Len() int {
	return len(p.Chunks)
}

// Split partitions src into chunks of at most maxTokens tokens each, preferring
// to end a chunk just after a '.' and then a ',' found within the last
// WindowChars runes of the window. The cursor advances by the token length of
// the emitted chunk, never less than one token and never past the window.
func Split(src string, maxTokens int, tok Tokenizer) Plan {
	tokens := tok.Encode(src)
	if maxTokens <= 0 || len(tokens) <= maxTokens {
		if len(tokens) == 0 {
			return Plan{}
		}
		return Plan{Chunks: []Chunk{{Text: src, Tokens: len(tokens)}}}
	}

	var plan Plan
	start := 0
	for start < len(tokens) {
		end := min(start+maxTokens, len(tokens))
		window := tok.Decode(tokens[start:end])
		chunk := window[:boundary(window)]

		n := len(tok.Encode(chunk))
		n = max(1, min(n, end-start))
		if chunk != "" {
			plan.Chunks = append(plan.Chunks, Chunk{Text: chunk, Tokens: n})
		}
		start += n
	}
	return plan
}

// boundary returns the byte length of the chunk to emit from window.
func boundary(window string) int {
	for _, sep := range []string{".", ","} {
		i := strings.LastIndex(window, sep)
		if i >= 0 && text.RunesAfter(window, i) <= WindowChars {
			return i + len(sep)
		}
	}
	return len(window)
}
