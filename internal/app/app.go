// Package app assembles the summarization engine from an AppConfig. It is
// shared by the HTTP server, the Lambda handler and the CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"polysum/internal/chunker"
	"polysum/internal/config"
	"polysum/internal/domain/entity"
	"polysum/internal/infra/backend"
	"polysum/internal/infra/cache"
	"polysum/internal/infra/db"
	"polysum/internal/infra/fetcher"
	"polysum/internal/infra/translator"
	"polysum/internal/profile"
	"polysum/internal/usecase/summarize"
)

// loadTokenizer resolves a tiktoken encoding. Swapped in tests.
var loadTokenizer = func(encoding string) (chunker.Tokenizer, error) {
	return chunker.NewTiktokenTokenizer(encoding)
}

// App holds the wired components and the resources that must be released.
type App struct {
	Service    *summarize.Service
	Translator *translator.Gateway
	Backends   map[entity.LanguageTag]backend.Generator
	Fetcher    *fetcher.ReadabilityFetcher

	// Purger drops expired cache entries; scheduled by the server.
	Purger cache.Purger
	// DB is nil unless the Postgres cache is configured.
	DB *sql.DB

	closers []io.Closer
}

// Build connects the stores and backends described by cfg.
// On error everything opened so far is closed.
func Build(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	a := &App{Backends: make(map[entity.LanguageTag]backend.Generator, len(cfg.Backends))}
	built := false
	defer func() {
		if !built {
			_ = a.Close()
		}
	}()

	var err error
	profiles := profile.NewDefaultRegistry()
	if cfg.ProfilesFile != "" {
		if profiles, err = profile.LoadFile(cfg.ProfilesFile); err != nil {
			return nil, fmt.Errorf("load profiles: %w", err)
		}
		slog.InfoContext(ctx, "length profiles loaded", slog.String("path", cfg.ProfilesFile))
	}

	store, err := a.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Purger = store
	a.Translator = translator.NewGateway(cfg.Translator, store, nil)
	if !a.Translator.Available() {
		slog.WarnContext(ctx, "DEEPL_API_KEY not set, pivot routes and target translation are disabled")
	}

	tokenizers := make(map[string]chunker.Tokenizer)
	summarizers := make(map[entity.LanguageTag]summarize.Summarizer, len(cfg.Backends))
	for _, bc := range cfg.Backends {
		gen, err := backend.New(ctx, bc)
		if err != nil {
			return nil, fmt.Errorf("backend %s: %w", bc.Lang, err)
		}
		a.Backends[bc.Lang] = gen
		if c, ok := gen.(io.Closer); ok {
			a.closers = append(a.closers, c)
		}

		tok, ok := tokenizers[bc.Encoding]
		if !ok {
			tok = tokenizerFor(ctx, bc.Encoding)
			tokenizers[bc.Encoding] = tok
		}
		summarizers[bc.Lang] = summarize.NewModelSummarizer(bc.Lang, gen, tok, bc.MaxInputTokens, profiles)
	}

	registry, err := summarize.NewRegistry(summarizers)
	if err != nil {
		return nil, err
	}
	a.Service = summarize.NewService(registry, a.Translator)
	a.Fetcher = fetcher.NewReadabilityFetcher(cfg.Fetcher)

	slog.InfoContext(ctx, "summarization engine ready",
		slog.Any("languages", registry.Languages()),
		slog.String("translation_cache", cfg.CacheDriver),
		slog.Bool("translation_available", a.Translator.Available()))
	built = true
	return a, nil
}

// purgingStore is satisfied by both MemoryStore and PostgresStore.
type purgingStore interface {
	cache.Store
	cache.Purger
}

func (a *App) openStore(ctx context.Context, cfg *config.AppConfig) (purgingStore, error) {
	if cfg.CacheDriver != config.CachePostgres {
		return cache.NewMemoryStore(), nil
	}

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.DB = conn
	a.closers = append(a.closers, conn)
	if err := db.MigrateUp(ctx, conn); err != nil {
		return nil, fmt.Errorf("migrate translation cache: %w", err)
	}
	return cache.NewPostgresStore(conn), nil
}

// tokenizerFor loads encoding, falling back to one token per code point
// when the BPE ranks cannot be loaded (e.g. no network on first start).
func tokenizerFor(ctx context.Context, encoding string) chunker.Tokenizer {
	tok, err := loadTokenizer(encoding)
	if err != nil {
		slog.WarnContext(ctx, "tokenizer unavailable, counting code points instead",
			slog.String("encoding", encoding),
			slog.Any("error", err))
		return chunker.RuneTokenizer{}
	}
	return tok
}

// Close releases backend clients and the database pool.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
