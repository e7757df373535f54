package backend

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadSentences(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{name: "short input returned whole", text: "  One. Two.  ", limit: 100, want: "One. Two."},
		{name: "whole sentences only", text: "First one. Second one. Third one.", limit: 24, want: "First one. Second one."},
		{name: "japanese terminators", text: "一文目です。二文目です。三文目です。", limit: 12, want: "一文目です。二文目です。"},
		{name: "long first sentence is cut", text: "abcdefghijklmnopqrstuvwxyz and more", limit: 5, want: "abcde"},
		{name: "no limit", text: "Anything goes.", limit: 0, want: "Anything goes."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, leadSentences(tt.text, tt.limit))
		})
	}
}

func TestNoOp_Generate(t *testing.T) {
	gen := NewNoOp(DefaultConfig("ja"))
	quiet(&gen.guard)

	params := testParams()
	params.MaxNewTokens = 3
	text := strings.Repeat("これはテストです。", 5)

	out, err := gen.Generate(context.Background(), text, params)
	require.NoError(t, err)
	assert.Equal(t, "これはテストです。", out)
	assert.Equal(t, "noop-ja", gen.Name())
	assert.False(t, gen.CircuitOpen())
}
