package translator

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"polysum/internal/infra/cache"
	"polysum/pkg/config"
)

const (
	// DefaultBaseURL is the DeepL free-tier API root.
	DefaultBaseURL = "https://api-free.deepl.com/v2"

	// DefaultTimeout bounds a single provider request.
	DefaultTimeout = 60 * time.Second
)

// Config holds the translation provider settings.
type Config struct {
	// APIKey is the DeepL auth key. Empty means translation is unavailable.
	APIKey string

	// BaseURL is the API root; "/translate" is appended.
	BaseURL string

	// Timeout bounds one HTTP request, not the whole retry loop.
	Timeout time.Duration

	// CacheTTL is how long successful translations are cached.
	CacheTTL time.Duration

	// RateLimit is the sustained requests per second sent upstream (0 = unlimited).
	RateLimit float64

	// RateBurst is the token bucket size used with RateLimit.
	RateBurst int
}

// DefaultConfig returns the provider defaults without credentials.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		CacheTTL:  cache.DefaultTTL,
		RateBurst: 1,
	}
}

// LoadConfig reads the provider settings from the environment.
// A missing DEEPL_API_KEY is not an error here; Translate reports it per call.
func LoadConfig() (Config, error) {
	cfg := Config{
		APIKey:    config.GetEnvString("DEEPL_API_KEY", ""),
		BaseURL:   config.GetEnvString("DEEPL_BASE_URL", DefaultBaseURL),
		Timeout:   config.GetEnvDuration("TRANSLATION_TIMEOUT", DefaultTimeout),
		CacheTTL:  config.GetEnvDuration("TRANSLATION_CACHE_TTL", cache.DefaultTTL),
		RateLimit: config.GetEnvFloat("TRANSLATION_RATE_LIMIT", 0),
		RateBurst: config.GetEnvInt("TRANSLATION_RATE_BURST", 1),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid translator configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base URL %q is not an absolute URL", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.CacheTTL <= 0 {
		return errors.New("cache TTL must be positive")
	}
	if c.RateLimit < 0 {
		return errors.New("rate limit must not be negative")
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return errors.New("rate burst must be at least 1 when rate limiting")
	}
	return nil
}

// HasCredentials reports whether an API key is configured.
func (c Config) HasCredentials() bool {
	return c.APIKey != ""
}
