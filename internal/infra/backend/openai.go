package backend

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"polysum/internal/budget"
	"polysum/internal/resilience/retry"
)

// OpenAIGenerator summarizes with an OpenAI compatible chat completion API.
type OpenAIGenerator struct {
	guard
	client *openai.Client
	config Config
}

// NewOpenAIGenerator creates an OpenAI backend. A non-empty cfg.Endpoint
// replaces the API base URL, which allows self-hosted compatible servers.
func NewOpenAIGenerator(cfg Config) *OpenAIGenerator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	return &OpenAIGenerator{
		guard:  newGuard(cfg),
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
}

// Generate implements Generator.
func (o *OpenAIGenerator) Generate(ctx context.Context, text string, params budget.GenerationParams) (string, error) {
	return o.run(ctx, text, params, func(ctx context.Context) (string, error) {
		return o.doGenerate(ctx, text, params)
	})
}

func (o *OpenAIGenerator) doGenerate(ctx context.Context, text string, params budget.GenerationParams) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: params.MaxNewTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: buildPrompt(o.config.Lang, text, params),
		}},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
			return "", &retry.HTTPError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}
		return "", fmt.Errorf("openai api error: %w", err)
	}

	// Validate response structure (safety check to prevent panic on array access)
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
