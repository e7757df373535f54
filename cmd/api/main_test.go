package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polysum/internal/app"
	"polysum/internal/config"
	"polysum/internal/infra/cache"
	"polysum/internal/infra/worker"
)

func setTestEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "VERSION", "PROFILES_FILE", "TRANSLATION_CACHE", "DATABASE_URL",
		"CACHE_PURGE_SCHEDULE", "HTTP_REQUEST_TIMEOUT", "HTTP_MAX_BODY_BYTES",
		"RATE_LIMIT_PER_MINUTE", "RATE_LIMIT_BURST", "TRACE_SAMPLE_RATIO",
		"SUMMARIZER_EN_BACKEND", "DEEPL_API_KEY",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("SUMMARIZER_LANGS", "en")
}

type runRecorder struct {
	tracingClosed bool
	served        bool
}

func (r *runRecorder) deps(build func(context.Context, *config.AppConfig) (*app.App, error)) deps {
	return deps{
		initTracing: func(float64) func(context.Context) error {
			return func(context.Context) error {
				r.tracingClosed = true
				return nil
			}
		},
		build: build,
		serve: func(_ *slog.Logger, _ *config.AppConfig, handler http.Handler, purger *worker.PurgeScheduler) error {
			r.served = handler != nil && purger != nil
			return nil
		},
		registerer: prometheus.NewRegistry(),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_ReleasesResourcesOnStartupFailure(t *testing.T) {
	tests := []struct {
		name    string
		build   func(context.Context, *config.AppConfig) (*app.App, error)
		wantErr string
	}{
		{
			name: "engine build fails",
			build: func(context.Context, *config.AppConfig) (*app.App, error) {
				return nil, errors.New("no backend")
			},
			wantErr: "build summarization engine",
		},
		{
			name: "purge scheduler fails",
			build: func(context.Context, *config.AppConfig) (*app.App, error) {
				return &app.App{}, nil
			},
			wantErr: "schedule cache purge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setTestEnv(t)
			rec := &runRecorder{}

			err := run(discardLogger(), rec.deps(tt.build))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, rec.tracingClosed, "tracing provider was not shut down")
			assert.False(t, rec.served)
		})
	}
}

func TestRun_ServesWithBuiltEngine(t *testing.T) {
	setTestEnv(t)
	rec := &runRecorder{}

	err := run(discardLogger(), rec.deps(func(context.Context, *config.AppConfig) (*app.App, error) {
		return &app.App{Purger: cache.NewMemoryStore()}, nil
	}))

	require.NoError(t, err)
	assert.True(t, rec.served)
	assert.True(t, rec.tracingClosed)
}

func TestRun_InvalidConfiguration(t *testing.T) {
	setTestEnv(t)
	t.Setenv("TRANSLATION_CACHE", "redis")
	rec := &runRecorder{}

	err := run(discardLogger(), rec.deps(func(context.Context, *config.AppConfig) (*app.App, error) {
		t.Fatal("engine must not be built")
		return nil, nil
	}))

	assert.ErrorContains(t, err, "load configuration")
	assert.False(t, rec.tracingClosed)
}
