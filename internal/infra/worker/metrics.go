package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PurgeMetrics tracks the scheduled translation cache purge.
//
// Metrics:
//   - cache_purge_runs_total: purge runs by status (success/failure)
//   - cache_purge_duration_seconds: duration of a purge run
//   - cache_purge_entries_total: expired entries removed
//   - cache_purge_last_success_timestamp: Unix time of the last successful run
type PurgeMetrics struct {
	RunsTotal            *prometheus.CounterVec
	DurationSeconds      prometheus.Histogram
	EntriesPurgedTotal   prometheus.Counter
	LastSuccessTimestamp prometheus.Gauge
}

// NewPurgeMetrics registers the purge metrics with reg. A nil reg uses the
// default Prometheus registerer.
func NewPurgeMetrics(reg prometheus.Registerer) *PurgeMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PurgeMetrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_purge_runs_total",
			Help: "Total number of translation cache purge runs by status (success/failure)",
		}, []string{"status"}),

		DurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_purge_duration_seconds",
			Help:    "Duration of translation cache purge runs in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30}, // 10ms to 30s
		}),

		EntriesPurgedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "cache_purge_entries_total",
			Help: "Total number of expired translation cache entries removed",
		}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cache_purge_last_success_timestamp",
			Help: "Unix timestamp of the last successful translation cache purge",
		}),
	}
}

// RecordRun increments the run counter for status.
func (m *PurgeMetrics) RecordRun(status string) {
	m.RunsTotal.WithLabelValues(status).Inc()
}

// RecordDuration observes a run duration in seconds.
func (m *PurgeMetrics) RecordDuration(seconds float64) {
	m.DurationSeconds.Observe(seconds)
}

// RecordPurged adds the number of entries removed by a run.
func (m *PurgeMetrics) RecordPurged(n int64) {
	m.EntriesPurgedTotal.Add(float64(n))
}

// RecordLastSuccess stamps the current time as the last successful run.
func (m *PurgeMetrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
