package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"polysum/internal/budget"
)

// inferenceRequest is the Hugging Face inference payload shared by the HTTP
// and Lambda backends.
type inferenceRequest struct {
	Inputs     string                  `json:"inputs"`
	Parameters budget.GenerationParams `json:"parameters"`
}

type inferenceOutput struct {
	SummaryText   string `json:"summary_text"`
	GeneratedText string `json:"generated_text"`
}

func (o inferenceOutput) text() string {
	if o.SummaryText != "" {
		return o.SummaryText
	}
	return o.GeneratedText
}

// parseInferenceResponse accepts a list of outputs (summarization pipeline)
// or a single output object (text generation servers).
func parseInferenceResponse(body []byte) (string, error) {
	body = bytes.TrimSpace(body)
	var outputs []inferenceOutput
	if len(body) > 0 && body[0] == '[' {
		if err := json.Unmarshal(body, &outputs); err != nil {
			return "", fmt.Errorf("decode inference response: %w", err)
		}
	} else {
		var single inferenceOutput
		if err := json.Unmarshal(body, &single); err != nil {
			return "", fmt.Errorf("decode inference response: %w", err)
		}
		outputs = append(outputs, single)
	}

	if len(outputs) == 0 {
		return "", ErrEmptyResponse
	}
	summary := strings.TrimSpace(outputs[0].text())
	if summary == "" {
		return "", ErrEmptyResponse
	}
	return summary, nil
}
