// Package observability groups the logging, metrics and tracing subpackages.
//
//   - logging: slog JSON/text loggers with request ID propagation
//   - metrics: Prometheus collectors for HTTP traffic, routing and storage
//   - tracing: OpenTelemetry provider setup and HTTP middleware
package observability
