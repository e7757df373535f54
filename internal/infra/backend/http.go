package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"polysum/internal/budget"
	"polysum/internal/resilience/retry"
)

const maxResponseBytes = 4 << 20

// HTTPGenerator calls a Hugging Face compatible inference server.
type HTTPGenerator struct {
	guard
	client *http.Client
	config Config
}

// NewHTTPGenerator creates an HTTP backend. A nil client uses http.DefaultClient;
// the per-call timeout comes from cfg.Timeout.
func NewHTTPGenerator(cfg Config, client *http.Client) *HTTPGenerator {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGenerator{
		guard:  newGuard(cfg),
		client: client,
		config: cfg,
	}
}

// Generate implements Generator.
func (h *HTTPGenerator) Generate(ctx context.Context, text string, params budget.GenerationParams) (string, error) {
	return h.run(ctx, text, params, func(ctx context.Context) (string, error) {
		return h.doGenerate(ctx, text, params)
	})
}

func (h *HTTPGenerator) doGenerate(ctx context.Context, text string, params budget.GenerationParams) (string, error) {
	payload, err := json.Marshal(inferenceRequest{Inputs: text, Parameters: params})
	if err != nil {
		return "", fmt.Errorf("encode inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if h.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.config.APIKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read inference response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &retry.HTTPError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	return parseInferenceResponse(body)
}
