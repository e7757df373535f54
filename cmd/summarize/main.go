// Package main provides a CLI for routed summarization.
// Usage: polysum-summarize [--file PATH | --url URL] [--mode short|medium|long] [--target LANG] [--output text|json]
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"polysum/internal/app"
	"polysum/internal/config"
	"polysum/internal/observability/logging"
)

func main() {
	logger := logging.NewTextLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	build := func(ctx context.Context) (*engine, func(), error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		a, err := app.Build(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return &engine{svc: a.Service, fetcher: a.Fetcher}, func() { _ = a.Close() }, nil
	}

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, build))
}
