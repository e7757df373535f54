package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"polysum/internal/domain/entity"
	"polysum/internal/handler/http/requestid"
	hsummarize "polysum/internal/handler/http/summarize"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

// warmupSource marks scheduled keep-warm events.
const warmupSource = "warmup"

// Response is returned for every invocation. Failures are reported in the
// payload rather than as a Lambda error so callers get a status code and a
// safe message instead of a stack trace.
type Response struct {
	StatusCode int                   `json:"status_code"`
	Result     *entity.SummaryResult `json:"result,omitempty"`
	Error      string                `json:"error,omitempty"`
	Warm       bool                  `json:"warm,omitempty"`
}

type handler struct {
	svc hsummarize.Service
}

func (h *handler) handle(ctx context.Context, event json.RawMessage) (Response, error) {
	if isWarmup(event) {
		return Response{StatusCode: http.StatusOK, Warm: true}, nil
	}

	id := requestid.New()
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		id = lc.AwsRequestID
	}
	ctx = requestid.WithRequestID(ctx, id)

	var req hsummarize.SummarizeRequest
	if err := json.Unmarshal(event, &req); err != nil {
		return Response{StatusCode: http.StatusBadRequest, Error: "invalid JSON body"}, nil
	}

	target, mode, err := req.Params()
	if err == nil {
		var result *entity.SummaryResult
		if result, err = h.svc.RouteAndSummarize(ctx, req.Text, target, mode); err == nil {
			return Response{StatusCode: http.StatusOK, Result: result}, nil
		}
	}

	status, msg := hsummarize.Describe(err)
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(ctx, level, "summarization failed",
		slog.String("request_id", id),
		slog.Int("status", status),
		slog.Any("error", err))
	return Response{StatusCode: status, Error: msg}, nil
}

func isWarmup(event json.RawMessage) bool {
	var probe struct {
		Source string `json:"source"`
	}
	return json.Unmarshal(event, &probe) == nil && probe.Source == warmupSource
}
