package usecase

import (
	"context"
	"log/slog"
	"time"
)

// IntervalRunner reruns the pipeline on a fixed period, for deployments that
// keep the process resident instead of driving it from cron. The first pass
// runs immediately; its failure is fatal because it surfaces configuration
// errors. Later failures are logged and the loop keeps going.
type IntervalRunner struct {
	pipeline *Pipeline
	interval time.Duration
	logger   *slog.Logger
}

// NewIntervalRunner wires the pipeline to a periodic trigger.
func NewIntervalRunner(pipeline *Pipeline, interval time.Duration, logger *slog.Logger) *IntervalRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &IntervalRunner{pipeline: pipeline, interval: interval, logger: logger}
}

// Run blocks until the context is canceled.
func (r *IntervalRunner) Run(ctx context.Context) error {
	if _, err := r.pipeline.Run(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("scheduler stopped")
			return nil
		case <-ticker.C:
			if _, err := r.pipeline.Run(ctx); err != nil {
				r.logger.Error("scheduled run failed", "error", err)
			}
		}
	}
}
