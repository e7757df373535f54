package circuitbreaker

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// DBConfig returns the breaker for the translation cache database. It opens
// only when every one of at least five recent calls failed.
func DBConfig() Config {
	return Config{
		Name:             "cache-db",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0,
		MinRequests:      5,
		IsSuccessful:     IgnoreCallerErrors,
	}
}

// DB runs cache statements through a circuit breaker so an unreachable
// database fails fast and lookups degrade to misses.
type DB struct {
	cb *CircuitBreaker
	db *sql.DB
}

// NewDB wraps db with a DBConfig breaker.
func NewDB(db *sql.DB) *DB {
	return &DB{cb: New(DBConfig()), db: db}
}

// ExecContext executes a statement through the breaker.
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return Run(d.cb, func() (sql.Result, error) {
		return d.db.ExecContext(ctx, query, args...)
	})
}

// ScanRowContext runs a single-row query and scans it into dest inside the
// breaker. sql.ErrNoRows is returned but does not count as a failure.
func (d *DB) ScanRowContext(ctx context.Context, query string, args []interface{}, dest ...interface{}) error {
	found, err := Run(d.cb, func() (bool, error) {
		err := d.db.QueryRowContext(ctx, query, args...).Scan(dest...)
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return err == nil, err
	})
	if err != nil {
		return err
	}
	if !found {
		return sql.ErrNoRows
	}
	return nil
}

// IsOpen reports whether the breaker is rejecting calls.
func (d *DB) IsOpen() bool {
	return d.cb.IsOpen()
}
