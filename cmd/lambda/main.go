// Package main runs the summarization engine as an AWS Lambda function.
// The event body is the same JSON accepted by POST /summarize.
package main

import (
	"context"
	"log/slog"
	"os"

	"polysum/internal/app"
	"polysum/internal/config"
	"polysum/internal/observability/logging"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Built once per execution environment and reused across invocations.
	engine, err := app.Build(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to build summarization engine", slog.Any("error", err))
		os.Exit(1)
	}

	h := &handler{svc: engine.Service}
	lambda.StartWithOptions(h.handle, lambda.WithEnableSIGTERM(func() {
		if err := engine.Close(); err != nil {
			logger.Error("failed to release resources", slog.Any("error", err))
		}
	}))
}
