package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the settings for article extraction.
//
// Security settings:
//   - DenyPrivateIPs: blocks URLs resolving to internal addresses (SSRF)
//   - MaxBodySize: rejects oversized pages while reading
//   - MaxRedirects: bounds redirect chains, every hop is re-validated
//   - Timeout: bounds a single request
type Config struct {
	// Timeout is the maximum duration for a single HTTP request.
	// Default: 10s
	Timeout time.Duration

	// MaxBodySize is the maximum HTTP response body size in bytes.
	// Enforced while reading, not from Content-Length.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// MaxRedirects is the maximum number of HTTP redirects to follow.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs controls whether private addresses are rejected.
	// Should always be true in production.
	// Default: true
	DenyPrivateIPs bool

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		UserAgent:      "PolysumBot/1.0",
	}
}

// Validate checks that the configuration values are safe.
//
// Validation rules:
//   - Timeout: > 0
//   - MaxBodySize: 1KB-100MB
//   - MaxRedirects: 0-10
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
// Unset variables keep their defaults; malformed ones are reported.
//
// Environment variables:
//   - EXTRACT_TIMEOUT: duration string, e.g. "10s"
//   - EXTRACT_MAX_BODY_SIZE: integer in bytes
//   - EXTRACT_MAX_REDIRECTS: integer
//   - EXTRACT_DENY_PRIVATE_IPS: "true" or "false"
//   - EXTRACT_USER_AGENT: string
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if val := os.Getenv("EXTRACT_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid EXTRACT_TIMEOUT: %v (expected format: '10s', '1m')", err)
		}
		cfg.Timeout = parsed
	}

	if val := os.Getenv("EXTRACT_MAX_BODY_SIZE"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid EXTRACT_MAX_BODY_SIZE: %v", err)
		}
		cfg.MaxBodySize = parsed
	}

	if val := os.Getenv("EXTRACT_MAX_REDIRECTS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid EXTRACT_MAX_REDIRECTS: %v", err)
		}
		cfg.MaxRedirects = parsed
	}

	if val := os.Getenv("EXTRACT_DENY_PRIVATE_IPS"); val != "" {
		cfg.DenyPrivateIPs = val == "true"
	}

	if val := os.Getenv("EXTRACT_USER_AGENT"); val != "" {
		cfg.UserAgent = val
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
