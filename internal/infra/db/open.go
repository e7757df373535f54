// Package db opens the PostgreSQL connection pool backing the persistent
// translation cache and creates its schema.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"polysum/pkg/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrMissingDSN is returned when no connection string is configured.
var ErrMissingDSN = errors.New("DATABASE_URL not set")

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the default connection pool configuration.
// The cache issues short single-row queries, so the pool is small.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 15 * time.Minute,
	}
}

// Open creates and configures a connection pool for dsn and verifies it with a ping.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	cfg := getConnectionConfigFromEnv()
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	slog.InfoContext(ctx, "database connection pool configured",
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
		slog.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", cfg.ConnMaxIdleTime))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.InfoContext(ctx, "database connection established successfully")
	return db, nil
}

// getConnectionConfigFromEnv applies the DB_* pool overrides. Non-positive
// values keep the default.
func getConnectionConfigFromEnv() ConnectionConfig {
	def := DefaultConnectionConfig()
	return ConnectionConfig{
		MaxOpenConns:    positiveOr(config.GetEnvInt("DB_MAX_OPEN_CONNS", def.MaxOpenConns), def.MaxOpenConns),
		MaxIdleConns:    positiveOr(config.GetEnvInt("DB_MAX_IDLE_CONNS", def.MaxIdleConns), def.MaxIdleConns),
		ConnMaxLifetime: positiveOr(config.GetEnvDuration("DB_CONN_MAX_LIFETIME", def.ConnMaxLifetime), def.ConnMaxLifetime),
		ConnMaxIdleTime: positiveOr(config.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", def.ConnMaxIdleTime), def.ConnMaxIdleTime),
	}
}

func positiveOr[T int | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}
