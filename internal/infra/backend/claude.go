package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"polysum/internal/budget"
	"polysum/internal/resilience/retry"
)

// ClaudeGenerator summarizes with the Anthropic Messages API.
type ClaudeGenerator struct {
	guard
	client anthropic.Client
	config Config
}

// NewClaudeGenerator creates a Claude backend.
func NewClaudeGenerator(cfg Config) *ClaudeGenerator {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	return &ClaudeGenerator{
		guard:  newGuard(cfg),
		client: anthropic.NewClient(opts...),
		config: cfg,
	}
}

// Generate implements Generator.
func (c *ClaudeGenerator) Generate(ctx context.Context, text string, params budget.GenerationParams) (string, error) {
	return c.run(ctx, text, params, func(ctx context.Context) (string, error) {
		return c.doGenerate(ctx, text, params)
	})
}

func (c *ClaudeGenerator) doGenerate(ctx context.Context, text string, params budget.GenerationParams) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(params.MaxNewTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(buildPrompt(c.config.Lang, text, params)),
			),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &retry.HTTPError{StatusCode: apiErr.StatusCode, Message: apiErr.Error()}
		}
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		return "", ErrEmptyResponse
	}
	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok || textBlock.Text == "" {
		return "", fmt.Errorf("claude api returned unexpected response type: %w", ErrEmptyResponse)
	}
	return textBlock.Text, nil
}
