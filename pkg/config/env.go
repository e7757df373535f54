// Package config holds small helpers for reading typed values from the
// environment. Malformed values fall back to the default and log a warning
// so a typo never prevents the process from starting.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// lookup parses the variable key with parse. Unset or empty variables yield
// def silently; parse failures yield def with a warning.
func lookup[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		slog.Warn("invalid value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Any("default", def),
			slog.String("error", err.Error()))
		return def
	}
	return v
}

// GetEnvString returns the variable or defaultValue when unset or empty.
func GetEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvInt returns the variable parsed as a base-10 int.
func GetEnvInt(key string, defaultValue int) int {
	return lookup(key, defaultValue, strconv.Atoi)
}

// GetEnvFloat returns the variable parsed as a float64.
//
//	rps := GetEnvFloat("TRANSLATION_RATE_LIMIT", 0)
func GetEnvFloat(key string, defaultValue float64) float64 {
	return lookup(key, defaultValue, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// GetEnvBool accepts the forms understood by strconv.ParseBool.
func GetEnvBool(key string, defaultValue bool) bool {
	return lookup(key, defaultValue, strconv.ParseBool)
}

// GetEnvDuration returns the variable parsed by time.ParseDuration ("30s", "1h30m").
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	return lookup(key, defaultValue, time.ParseDuration)
}

// GetEnvStringList splits a comma-separated variable, trimming entries and
// dropping empty ones. A variable with no entries yields defaultValue.
//
//	langs := GetEnvStringList("SUMMARIZER_LANGS", []string{"en", "ja"})
//	// SUMMARIZER_LANGS="en, ja, ko" -> ["en", "ja", "ko"]
func GetEnvStringList(key string, defaultValue []string) []string {
	var result []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
