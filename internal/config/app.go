// Package config assembles the process configuration from environment
// variables: HTTP server settings, the per-language backends, translation,
// caching and article extraction.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"polysum/internal/domain/entity"
	"polysum/internal/infra/backend"
	"polysum/internal/infra/fetcher"
	"polysum/internal/infra/translator"
	envconfig "polysum/pkg/config"

	"github.com/robfig/cron/v3"
)

// Translation cache drivers.
const (
	CacheMemory   = "memory"
	CachePostgres = "postgres"
)

// AppConfig is the full process configuration.
type AppConfig struct {
	// Port the HTTP server listens on. Default: 8080
	Port string
	// Version reported by /health. Default: dev
	Version string

	// Languages that get a dedicated backend. en is required as the
	// fallback. Default: en,ja
	Languages []entity.LanguageTag
	// ProfilesFile optionally overrides the built-in length profiles (YAML).
	ProfilesFile string
	// Backends holds one backend configuration per entry in Languages.
	Backends []backend.Config

	Translator translator.Config
	Fetcher    fetcher.Config

	// CacheDriver selects the translation cache: memory or postgres.
	// Default: memory
	CacheDriver string
	// DatabaseURL is required when CacheDriver is postgres.
	DatabaseURL string
	// CachePurgeSchedule is the cron spec for dropping expired cache rows.
	// Default: @every 1h
	CachePurgeSchedule string

	// RequestTimeout bounds a whole HTTP request, retries included.
	// Default: 3m
	RequestTimeout time.Duration
	// MaxBodyBytes caps request bodies. Default: 1MB
	MaxBodyBytes int64
	// RateLimitPerMinute per client IP on the summarization routes; 0
	// disables limiting. Default: 60
	RateLimitPerMinute int
	// RateLimitBurst per client IP. Default: 10
	RateLimitBurst int

	// TraceSampleRatio is the fraction of new traces that are sampled.
	// Default: 0.1
	TraceSampleRatio float64
}

// Load reads the configuration from the environment and validates it.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:               envconfig.GetEnvString("PORT", "8080"),
		Version:            envconfig.GetEnvString("VERSION", "dev"),
		ProfilesFile:       envconfig.GetEnvString("PROFILES_FILE", ""),
		CacheDriver:        strings.ToLower(envconfig.GetEnvString("TRANSLATION_CACHE", CacheMemory)),
		DatabaseURL:        envconfig.GetEnvString("DATABASE_URL", ""),
		CachePurgeSchedule: envconfig.GetEnvString("CACHE_PURGE_SCHEDULE", "@every 1h"),
		RequestTimeout:     envconfig.GetEnvDuration("HTTP_REQUEST_TIMEOUT", 3*time.Minute),
		MaxBodyBytes:       int64(envconfig.GetEnvInt("HTTP_MAX_BODY_BYTES", 1<<20)),
		RateLimitPerMinute: envconfig.GetEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		RateLimitBurst:     envconfig.GetEnvInt("RATE_LIMIT_BURST", 10),
		TraceSampleRatio:   envconfig.GetEnvFloat("TRACE_SAMPLE_RATIO", 0.1),
	}

	for _, lang := range envconfig.GetEnvStringList("SUMMARIZER_LANGS", []string{"en", "ja"}) {
		cfg.Languages = append(cfg.Languages, entity.NormalizeTag(lang))
	}

	for _, lang := range cfg.Languages {
		bc, err := backend.LoadConfig(lang)
		if err != nil {
			return nil, err
		}
		cfg.Backends = append(cfg.Backends, bc)
	}

	var err error
	if cfg.Translator, err = translator.LoadConfig(); err != nil {
		return nil, err
	}
	if cfg.Fetcher, err = fetcher.LoadConfigFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks cross-field rules.
func (c *AppConfig) Validate() error {
	var errs []error

	hasEnglish := false
	seen := make(map[entity.LanguageTag]bool, len(c.Languages))
	for _, lang := range c.Languages {
		if seen[lang] {
			errs = append(errs, fmt.Errorf("SUMMARIZER_LANGS lists %q twice", lang))
		}
		seen[lang] = true
		if lang == entity.LangEnglish {
			hasEnglish = true
		}
	}
	if !hasEnglish {
		errs = append(errs, errors.New("SUMMARIZER_LANGS must include en"))
	}

	switch c.CacheDriver {
	case CacheMemory:
	case CachePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when TRANSLATION_CACHE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("TRANSLATION_CACHE must be memory or postgres, got %q", c.CacheDriver))
	}

	if _, err := cron.ParseStandard(c.CachePurgeSchedule); err != nil {
		errs = append(errs, fmt.Errorf("CACHE_PURGE_SCHEDULE: %w", err))
	}
	if err := envconfig.ValidateDurationRange(c.RequestTimeout, time.Second, 30*time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("HTTP_REQUEST_TIMEOUT: %w", err))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("HTTP_MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes))
	}
	if c.RateLimitPerMinute < 0 || c.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("rate limit must be >= 0 per minute with burst >= 1, got %d/%d",
			c.RateLimitPerMinute, c.RateLimitBurst))
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		errs = append(errs, fmt.Errorf("TRACE_SAMPLE_RATIO must be between 0 and 1, got %v", c.TraceSampleRatio))
	}

	return errors.Join(errs...)
}

// RateLimitEnabled reports whether per-IP limiting is on.
func (c *AppConfig) RateLimitEnabled() bool {
	return c.RateLimitPerMinute > 0
}
