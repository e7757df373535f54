// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestSize measures HTTP request body size in bytes
	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks requests currently being served
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Business metrics track summarization routing
var (
	// SummariesTotal counts routed summarization requests
	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaries_total",
			Help: "Total number of summarization requests by detected language, pivot, and status",
		},
		[]string{"detected", "pivot", "status"},
	)

	// SummarizationDuration measures end-to-end routing and summarization time
	SummarizationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summarization_duration_seconds",
			Help:    "Time taken to route and summarize one input",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"summary_lang"},
	)

	// SummarizationChunks records how many chunks one input was split into
	SummarizationChunks = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarization_chunks",
			Help:    "Number of chunks summarized per input (1 when no chunking was needed)",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		},
	)

	// SummarizationInputTokens records the token count of summarized inputs
	SummarizationInputTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summarization_input_tokens",
			Help:    "Token count of inputs handed to a backend",
			Buckets: prometheus.ExponentialBuckets(16, 2, 10),
		},
		[]string{"lang"},
	)

	// ContentFetchAttemptsTotal counts article extraction attempts by result
	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetch_attempts_total",
			Help: "Total number of article extraction attempts",
		},
		[]string{"result"}, // result: success, failure
	)

	// ContentFetchDuration measures time to fetch article content
	ContentFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Time taken to fetch article content",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)
)

// Database metrics track the persistent translation cache
var (
	// DBQueryDuration measures database query duration by operation
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)
)

// RecordHTTPRequest records metrics for a completed HTTP request.
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RegisterOrExisting registers c with the default registry. When an equal
// collector is already registered, the existing one is returned instead, so
// component recorders can be constructed more than once (as tests do).
func RegisterOrExisting[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}
