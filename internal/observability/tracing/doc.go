// Package tracing provides OpenTelemetry tracing for HTTP requests and the
// summarization pipeline.
//
// Example usage:
//
//	shutdown := tracing.Init(0.1)
//	defer shutdown(context.Background())
//
//	handler := tracing.Middleware(mux)
package tracing
