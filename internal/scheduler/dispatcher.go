package scheduler

import (
	"context"
	"time"

	"roofing_crm_backend/platform/logger"
)

// AlertScanDispatcher enqueues a pipeline alert scan on startup and then
// once per interval.
type AlertScanDispatcher struct {
	enqueuer ScanEnqueuer
	interval time.Duration
	log      *logger.Logger
}

func NewAlertScanDispatcher(enqueuer ScanEnqueuer, interval time.Duration, log *logger.Logger) *AlertScanDispatcher {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &AlertScanDispatcher{enqueuer: enqueuer, interval: interval, log: log}
}

func (d *AlertScanDispatcher) Run(ctx context.Context) {
	if d == nil || d.enqueuer == nil {
		return
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		d.enqueue(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (d *AlertScanDispatcher) enqueue(ctx context.Context) {
	if err := d.enqueuer.EnqueueAlertScan(ctx, time.Now().UTC(), d.interval); err != nil {
		d.log.Warn("alert scan enqueue failed", "error", err)
	}
}
