// Package worker runs background maintenance jobs for the API process.
// Currently this is the cron-driven purge of expired translation cache
// entries.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"polysum/internal/infra/cache"

	"github.com/robfig/cron/v3"
)

// DefaultPurgeTimeout bounds a single purge run.
const DefaultPurgeTimeout = time.Minute

// PurgeScheduler periodically drops expired entries from a cache.Purger.
type PurgeScheduler struct {
	purger   cache.Purger
	schedule string
	timeout  time.Duration
	metrics  *PurgeMetrics
	logger   *slog.Logger
	cron     *cron.Cron
}

// NewPurgeScheduler validates schedule and prepares a scheduler. Nothing
// runs until Start is called.
func NewPurgeScheduler(purger cache.Purger, schedule string, metrics *PurgeMetrics, logger *slog.Logger) (*PurgeScheduler, error) {
	if purger == nil {
		return nil, fmt.Errorf("purger is required")
	}
	if metrics == nil {
		return nil, fmt.Errorf("metrics are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := cron.New(cron.WithLocation(time.UTC))
	s := &PurgeScheduler{
		purger:   purger,
		schedule: schedule,
		timeout:  DefaultPurgeTimeout,
		metrics:  metrics,
		logger:   logger,
		cron:     c,
	}
	if _, err := c.AddFunc(schedule, func() { _ = s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start launches the cron loop in the background.
func (s *PurgeScheduler) Start() {
	s.cron.Start()
	s.logger.Info("cache purge scheduled", slog.String("schedule", s.schedule))
}

// Stop halts scheduling and waits for a running purge to finish or ctx to
// expire, whichever comes first.
func (s *PurgeScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce performs a single purge and records its outcome.
func (s *PurgeScheduler) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.purger.Purge(ctx)
	s.metrics.RecordDuration(time.Since(start).Seconds())
	if err != nil {
		s.metrics.RecordRun("failure")
		s.logger.ErrorContext(ctx, "cache purge failed", slog.Any("error", err))
		return err
	}

	s.metrics.RecordRun("success")
	s.metrics.RecordPurged(n)
	s.metrics.RecordLastSuccess()
	s.logger.InfoContext(ctx, "cache purge completed",
		slog.Int64("purged", n),
		slog.Duration("duration", time.Since(start)))
	return nil
}
