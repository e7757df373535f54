// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the application-wide metrics:
//   - HTTP request metrics (duration, count, size)
//   - Summarization metrics (requests by route, duration, chunks, input tokens)
//   - Article extraction metrics
//   - Translation cache database metrics
//
// Component-specific recorders (translation gateway, inference backends) keep
// their own collectors and register them through RegisterOrExisting.
// All metrics are registered with the Prometheus default registry and exposed
// via the /metrics endpoint.
//
// Example usage:
//
//	import "polysum/internal/observability/metrics"
//
//	start := time.Now()
//	result, err := svc.RouteAndSummarize(ctx, text, target, mode)
//	metrics.RecordSummary(string(result.DetectedLang), string(result.PivotLang),
//	    string(result.SummarySourceLang), err == nil, time.Since(start))
package metrics
