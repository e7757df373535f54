package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"polysum/internal/observability/metrics"
	"polysum/internal/resilience/circuitbreaker"
)

// PostgresStore keeps translations in the translation_cache table so that
// they survive restarts and are shared between processes.
type PostgresStore struct {
	db  *circuitbreaker.DB
	now func() time.Time
}

// NewPostgresStore wraps db with the cache database circuit breaker.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:  circuitbreaker.NewDB(db),
		now: time.Now,
	}
}

// Get implements Store.
func (p *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `SELECT value FROM translation_cache WHERE key = $1 AND expires_at > $2`

	defer func(start time.Time) { metrics.RecordDBQuery("cache_get", time.Since(start)) }(time.Now())

	var value string
	err := p.db.ScanRowContext(ctx, query, []interface{}{key, p.now()}, &value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get: %w", err)
	}
	return value, true, nil
}

// Set implements Store.
func (p *PostgresStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	const query = `
INSERT INTO translation_cache (key, value, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`

	defer func(start time.Time) { metrics.RecordDBQuery("cache_set", time.Since(start)) }(time.Now())

	if _, err := p.db.ExecContext(ctx, query, key, value, p.now().Add(ttl)); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Purge deletes expired rows.
func (p *PostgresStore) Purge(ctx context.Context) (int64, error) {
	const query = `DELETE FROM translation_cache WHERE expires_at <= $1`

	defer func(start time.Time) { metrics.RecordDBQuery("cache_purge", time.Since(start)) }(time.Now())

	res, err := p.db.ExecContext(ctx, query, p.now())
	if err != nil {
		return 0, fmt.Errorf("cache purge: %w", err)
	}
	return res.RowsAffected()
}

// IsOpen reports whether the database circuit is open.
func (p *PostgresStore) IsOpen() bool {
	return p.db.IsOpen()
}
