package backend

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"polysum/internal/observability/metrics"
)

// MetricsRecorder defines the interface for recording backend metrics.
// Tests inject a fake instead of Prometheus.
type MetricsRecorder interface {
	// RecordGeneration records one guarded generation, retries included.
	RecordGeneration(backend string, success bool, duration time.Duration)

	// RecordOutputLength records the length of a generated summary in characters.
	RecordOutputLength(backend string, length int)
}

// PrometheusMetrics implements MetricsRecorder using Prometheus metrics.
type PrometheusMetrics struct {
	generations       *prometheus.CounterVec
	durationHistogram *prometheus.HistogramVec
	lengthHistogram   *prometheus.HistogramVec
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// NewPrometheusMetrics returns the process-wide recorder.
// Uses singleton pattern to avoid duplicate metric registration in tests.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			generations: metrics.RegisterOrExisting(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "backend_generations_total",
				Help: "Summarization backend calls by backend and status",
			}, []string{"backend", "status"})),
			durationHistogram: metrics.RegisterOrExisting(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "backend_generation_duration_seconds",
				Help:    "Time taken by a backend to generate a summary, retries included",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
			}, []string{"backend"})),
			lengthHistogram: metrics.RegisterOrExisting(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "backend_summary_length_characters",
				Help:    "Distribution of generated summary lengths in characters (Unicode runes)",
				Buckets: []float64{50, 100, 200, 300, 500, 800, 1200, 2000},
			}, []string{"backend"})),
		}
	})
	return prometheusMetricsInstance
}

// RecordGeneration implements MetricsRecorder.RecordGeneration
func (p *PrometheusMetrics) RecordGeneration(backend string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	p.generations.WithLabelValues(backend, status).Inc()
	p.durationHistogram.WithLabelValues(backend).Observe(duration.Seconds())
}

// RecordOutputLength implements MetricsRecorder.RecordOutputLength
func (p *PrometheusMetrics) RecordOutputLength(backend string, length int) {
	p.lengthHistogram.WithLabelValues(backend).Observe(float64(length))
}
