package backend

import (
	"context"
	"fmt"
	"log/slog"
)

// New builds the backend selected by cfg.Kind.
func New(ctx context.Context, cfg Config) (Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		gen Generator
		err error
	)
	switch cfg.Kind {
	case KindHTTP:
		gen = NewHTTPGenerator(cfg, nil)
	case KindLambda:
		gen, err = NewLambdaGenerator(ctx, cfg)
	case KindOpenAI:
		gen = NewOpenAIGenerator(cfg)
	case KindClaude:
		gen = NewClaudeGenerator(cfg)
	case KindGemini:
		gen, err = NewGeminiGenerator(ctx, cfg)
	case KindNoop:
		gen = NewNoOp(cfg)
	default:
		return nil, fmt.Errorf("unknown backend kind %q", cfg.Kind)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("summarization backend initialized",
		slog.String("lang", string(cfg.Lang)),
		slog.String("backend", gen.Name()),
		slog.String("model", cfg.Model),
		slog.Int("max_input_tokens", cfg.MaxInputTokens))
	return gen, nil
}
