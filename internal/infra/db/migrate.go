package db

import (
	"context"
	"database/sql"
)

// MigrateUp creates the translation cache table and its expiry index.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS translation_cache (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	// 期限切れ行の一括削除用
	if _, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_translation_cache_expires_at ON translation_cache(expires_at)`); err != nil {
		return err
	}

	return nil
}
