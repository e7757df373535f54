package chunker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"polysum/internal/domain/entity"
)

// SummarizeFunc summarizes a single model-sized text.
type SummarizeFunc func(ctx context.Context, text string, mode entity.LengthMode, lang entity.LanguageTag) (string, error)

// SummarizeLong summarizes text of any length with a backend limited to
// maxInputTokens tokens of input. Text within the limit goes straight to
// summarizeOne. Longer text is split, each chunk summarized in the requested
// mode, and the joined partial summaries summarized once more in short mode.
// Whitespace-only chunks are not sent to the model. The first chunk failure
// aborts the whole call. A non-positive maxInputTokens disables chunking.
func SummarizeLong(
	ctx context.Context,
	src string,
	mode entity.LengthMode,
	lang entity.LanguageTag,
	maxInputTokens int,
	tok Tokenizer,
	summarizeOne SummarizeFunc,
) (string, error) {
	if maxInputTokens <= 0 || len(tok.Encode(src)) <= maxInputTokens {
		return summarizeOne(ctx, src, mode, lang)
	}

	plan := Split(src, maxInputTokens, tok)
	slog.DebugContext(ctx, "input exceeds model window, summarizing in chunks",
		slog.String("lang", lang.String()),
		slog.Int("max_input_tokens", maxInputTokens),
		slog.Int("chunks", plan.Len()))

	// Stage 1: per-chunk summaries.
	partials := make([]string, 0, plan.Len())
	for i, c := range plan.Chunks {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("summarize chunk %d/%d: %w", i+1, plan.Len(), err)
		}
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		out, err := summarizeOne(ctx, c.Text, mode, lang)
		if err != nil {
			return "", fmt.Errorf("summarize chunk %d/%d: %w", i+1, plan.Len(), err)
		}
		partials = append(partials, out)
	}

	// Stage 2: compress the joined partials.
	out, err := summarizeOne(ctx, strings.Join(partials, " "), entity.ModeShort, lang)
	if err != nil {
		return "", fmt.Errorf("summarize combined chunks: %w", err)
	}
	return out, nil
}
