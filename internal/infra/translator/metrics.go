package translator

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"polysum/internal/observability/metrics"
)

// MetricsRecorder records translation gateway metrics.
// Tests inject a recording fake instead of Prometheus.
type MetricsRecorder interface {
	// RecordCache records a cache lookup; hit is false on a miss.
	RecordCache(hit bool)

	// RecordRequest records one upstream attempt by outcome and latency.
	RecordRequest(outcome string, duration time.Duration)

	// RecordRetry records a wait before another attempt.
	RecordRetry()
}

// Upstream request outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeTransient = "transient"
	OutcomeUpstream  = "upstream_error"
	OutcomeNetwork   = "network_error"
)

// PrometheusMetrics implements MetricsRecorder with Prometheus collectors.
type PrometheusMetrics struct {
	cacheLookups    *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration prometheus.Histogram
	retries         prometheus.Counter
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// NewPrometheusMetrics returns the process-wide Prometheus recorder.
// Uses singleton pattern to avoid duplicate metric registration in tests.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			cacheLookups: metrics.RegisterOrExisting(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "translation_cache_lookups_total",
				Help: "Translation cache lookups by result (hit, miss)",
			}, []string{"result"})),
			requests: metrics.RegisterOrExisting(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "translation_upstream_requests_total",
				Help: "Translation provider requests by outcome",
			}, []string{"outcome"})),
			requestDuration: metrics.RegisterOrExisting(prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "translation_upstream_request_duration_seconds",
				Help:    "Latency of translation provider requests",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			})),
			retries: metrics.RegisterOrExisting(prometheus.NewCounter(prometheus.CounterOpts{
				Name: "translation_retries_total",
				Help: "Number of translation retries after transient failures",
			})),
		}
	})
	return prometheusMetricsInstance
}

// RecordCache implements MetricsRecorder.RecordCache
func (p *PrometheusMetrics) RecordCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheLookups.WithLabelValues(result).Inc()
}

// RecordRequest implements MetricsRecorder.RecordRequest
func (p *PrometheusMetrics) RecordRequest(outcome string, duration time.Duration) {
	p.requests.WithLabelValues(outcome).Inc()
	p.requestDuration.Observe(duration.Seconds())
}

// RecordRetry implements MetricsRecorder.RecordRetry
func (p *PrometheusMetrics) RecordRetry() {
	p.retries.Inc()
}
