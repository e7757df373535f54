package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"polysum/internal/budget"
)

// GeminiGenerator summarizes with the Gemini API.
type GeminiGenerator struct {
	guard
	client *genai.Client
	config Config
}

// NewGeminiGenerator creates a Gemini backend. Close releases the client.
func NewGeminiGenerator(ctx context.Context, cfg Config) (*GeminiGenerator, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{
		guard:  newGuard(cfg),
		client: client,
		config: cfg,
	}, nil
}

// Close releases the underlying client.
func (g *GeminiGenerator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, text string, params budget.GenerationParams) (string, error) {
	return g.run(ctx, text, params, func(ctx context.Context) (string, error) {
		return g.doGenerate(ctx, text, params)
	})
}

func (g *GeminiGenerator) doGenerate(ctx context.Context, text string, params budget.GenerationParams) (string, error) {
	model := g.client.GenerativeModel(g.config.Model)
	model.SetMaxOutputTokens(int32(params.MaxNewTokens))
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(g.config.Lang, text, params)))
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	summary := strings.TrimSpace(sb.String())
	if summary == "" {
		return "", ErrEmptyResponse
	}
	return summary, nil
}
