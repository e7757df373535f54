// Package cache provides the TTL key/value stores shared by translation
// requests: an in-process map and a PostgreSQL table.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// DefaultTTL is how long a translation stays cached.
const DefaultTTL = 24 * time.Hour

// Store is a string key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value and true on a live hit.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Purger is implemented by stores that can drop expired entries in bulk.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// TranslationKey derives the cache key for a translation request.
// The hash is xxhash64 over the fields separated by NUL, so
// ("a", "bc") and ("ab", "c") never collide by concatenation.
func TranslationKey(sourceLang, targetLang, text string) string {
	d := xxhash.New()
	_, _ = d.WriteString(sourceLang)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(targetLang)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(text)
	return "deepl:" + strconv.FormatUint(d.Sum64(), 16)
}
