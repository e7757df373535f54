package chunker

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer converts between text and a backend's token ids.
// It measures input length and locates chunk boundaries.
type Tokenizer interface {
	Encode(text string) []int
	Decode(ids []int) string
}

// DefaultEncoding is the tiktoken encoding used when none is configured.
const DefaultEncoding = "cl100k_base"

// TiktokenTokenizer is a BPE tokenizer backed by tiktoken-go.
type TiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenTokenizer loads the named encoding (DefaultEncoding when empty).
func NewTiktokenTokenizer(encoding string) (*TiktokenTokenizer, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("get encoding failed, encoding=%v, err=%w", encoding, err)
	}
	return &TiktokenTokenizer{enc: enc}, nil
}

// Encode returns the token ids for text; special tokens are treated as plain text.
func (t *TiktokenTokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Decode maps token ids back to text.
func (t *TiktokenTokenizer) Decode(ids []int) string {
	return t.enc.Decode(ids)
}

// RuneTokenizer treats every Unicode code point as one token.
// Decode(Encode(s)) == s for any valid UTF-8 s.
type RuneTokenizer struct{}

// Encode returns the code points of text.
func (RuneTokenizer) Encode(text string) []int {
	runes := []rune(text)
	ids := make([]int, len(runes))
	for i, r := range runes {
		ids[i] = int(r)
	}
	return ids
}

// Decode rebuilds text from code points.
func (RuneTokenizer) Decode(ids []int) string {
	runes := make([]rune, len(ids))
	for i, id := range ids {
		runes[i] = rune(id)
	}
	return string(runes)
}
