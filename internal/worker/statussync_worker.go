package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/goodhive/onboarding-service/internal/observability"
	"github.com/goodhive/onboarding-service/internal/service"
)

// StatusSyncChecker is the part of the status-sync service the worker needs.
type StatusSyncChecker interface {
	Check(ctx context.Context) (*service.SyncReport, error)
}

// StatusSyncWorker periodically runs the drift diagnostic and publishes the
// totals as gauges. It never repairs anything.
type StatusSyncWorker struct {
	checker  StatusSyncChecker
	metrics  *observability.Metrics
	logger   *zap.Logger
	interval time.Duration
}

// NewStatusSyncWorker builds the worker.
func NewStatusSyncWorker(checker StatusSyncChecker, metrics *observability.Metrics, logger *zap.Logger, interval time.Duration) *StatusSyncWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusSyncWorker{checker: checker, metrics: metrics, logger: logger, interval: interval}
}

// Run checks once immediately and then every interval until ctx is done.
func (w *StatusSyncWorker) Run(ctx context.Context) {
	if w.interval <= 0 {
		return
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single check.
func (w *StatusSyncWorker) RunOnce(ctx context.Context) {
	report, err := w.checker.Check(ctx)
	if err != nil {
		w.logger.Warn("status sync check failed", zap.Error(err))
		return
	}
	w.metrics.SetStatusDrift("talents", report.Talents.Total())
	w.metrics.SetStatusDrift("companies", report.Companies.Total())
}
