package backend

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"polysum/internal/domain/entity"
	"polysum/pkg/config"
)

// Kind selects a backend implementation.
type Kind string

// Supported backend kinds.
const (
	KindHTTP   Kind = "http"
	KindLambda Kind = "lambda"
	KindOpenAI Kind = "openai"
	KindClaude Kind = "claude"
	KindGemini Kind = "gemini"
	KindNoop   Kind = "noop"
)

const (
	// DefaultTimeout bounds a single generation call.
	DefaultTimeout = 60 * time.Second

	// DefaultEnglishInputTokens is the English model input window.
	DefaultEnglishInputTokens = 1000
)

var defaultModels = map[Kind]string{
	KindOpenAI: "gpt-4o-mini",
	KindClaude: "claude-sonnet-4-5-20250929",
	KindGemini: "gemini-1.5-flash",
}

// Config describes the backend serving one summarization language.
type Config struct {
	// Lang is the language the backend summarizes in.
	Lang entity.LanguageTag

	// Kind selects the implementation.
	Kind Kind

	// Endpoint is the inference URL (http).
	Endpoint string

	// FunctionName is the Lambda function name or ARN (lambda).
	FunctionName string

	// Model is the provider model identifier (openai, claude, gemini).
	Model string

	// APIKey authenticates against the provider. Optional for http.
	APIKey string

	// Timeout bounds one generation call.
	Timeout time.Duration

	// MaxInputTokens is the model input window; inputs above it are chunked.
	// Zero disables chunking.
	MaxInputTokens int

	// Encoding is the tiktoken encoding used to count input tokens.
	Encoding string
}

// DefaultConfig returns the development configuration for lang: the noop
// backend with the English window of 1000 tokens and no window elsewhere.
func DefaultConfig(lang entity.LanguageTag) Config {
	maxInput := 0
	if lang == entity.LangEnglish {
		maxInput = DefaultEnglishInputTokens
	}
	return Config{
		Lang:           lang,
		Kind:           KindNoop,
		Timeout:        DefaultTimeout,
		MaxInputTokens: maxInput,
		Encoding:       "cl100k_base",
	}
}

// LoadConfig reads the backend for lang from SUMMARIZER_<LANG>_* variables.
//
// Environment variables (shown for en):
//   - SUMMARIZER_EN_BACKEND: http, lambda, openai, claude, gemini or noop (default: noop)
//   - SUMMARIZER_EN_ENDPOINT: inference URL for http
//   - SUMMARIZER_EN_FUNCTION: Lambda function name for lambda
//   - SUMMARIZER_EN_MODEL: provider model (default per provider)
//   - SUMMARIZER_EN_API_KEY: provider key; falls back to OPENAI_API_KEY,
//     ANTHROPIC_API_KEY or GEMINI_API_KEY for the hosted providers
//   - SUMMARIZER_EN_TIMEOUT: per-call timeout (default: 60s)
//   - SUMMARIZER_EN_MAX_INPUT_TOKENS: input window (default: 1000 for en, 0 otherwise)
//   - SUMMARIZER_EN_ENCODING: tokenizer encoding (default: cl100k_base)
func LoadConfig(lang entity.LanguageTag) (Config, error) {
	def := DefaultConfig(lang)
	prefix := "SUMMARIZER_" + strings.ToUpper(string(lang)) + "_"

	cfg := Config{
		Lang:           lang,
		Kind:           Kind(strings.ToLower(config.GetEnvString(prefix+"BACKEND", string(def.Kind)))),
		Endpoint:       config.GetEnvString(prefix+"ENDPOINT", ""),
		FunctionName:   config.GetEnvString(prefix+"FUNCTION", ""),
		Model:          config.GetEnvString(prefix+"MODEL", ""),
		APIKey:         config.GetEnvString(prefix+"API_KEY", ""),
		Timeout:        config.GetEnvDuration(prefix+"TIMEOUT", def.Timeout),
		MaxInputTokens: config.GetEnvInt(prefix+"MAX_INPUT_TOKENS", def.MaxInputTokens),
		Encoding:       config.GetEnvString(prefix+"ENCODING", def.Encoding),
	}
	if cfg.Model == "" {
		cfg.Model = defaultModels[cfg.Kind]
	}
	if cfg.APIKey == "" {
		switch cfg.Kind {
		case KindOpenAI:
			cfg.APIKey = config.GetEnvString("OPENAI_API_KEY", "")
		case KindClaude:
			cfg.APIKey = config.GetEnvString("ANTHROPIC_API_KEY", "")
		case KindGemini:
			cfg.APIKey = config.GetEnvString("GEMINI_API_KEY", "")
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid %s backend configuration: %w", lang, err)
	}
	return cfg, nil
}

// Validate checks the fields required by the selected kind.
func (c Config) Validate() error {
	if c.Lang.IsUnknown() {
		return fmt.Errorf("language cannot be empty")
	}
	if err := config.ValidatePositiveDuration(c.Timeout); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	if c.MaxInputTokens < 0 {
		return fmt.Errorf("max input tokens must not be negative, got %d", c.MaxInputTokens)
	}

	switch c.Kind {
	case KindNoop:
	case KindHTTP:
		u, err := url.Parse(c.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("endpoint %q must be an http(s) URL", c.Endpoint)
		}
	case KindLambda:
		if c.FunctionName == "" {
			return fmt.Errorf("lambda function name cannot be empty")
		}
	case KindOpenAI, KindClaude, KindGemini:
		if c.APIKey == "" {
			return fmt.Errorf("%s backend requires an API key", c.Kind)
		}
		if c.Model == "" {
			return fmt.Errorf("model cannot be empty")
		}
	default:
		return fmt.Errorf("unknown backend kind %q", c.Kind)
	}
	return nil
}
