package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"roofing_crm_backend/platform/config"
	"roofing_crm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes scheduler tasks from the asynq queue.
type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	scanner *AlertScanner
	log     *logger.Logger
}

// NewWorker builds an asynq server bound to the configured queue. Concurrency
// defaults to 10.
func NewWorker(cfg config.SchedulerConfig, scanner *AlertScanner, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		scanner: scanner,
		log:     log,
	}

	mux.HandleFunc(TaskPipelineAlertScan, w.handlePipelineAlertScan)

	return w, nil
}

// Run processes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handlePipelineAlertScan(ctx context.Context, task *asynq.Task) error {
	payload, err := ParsePipelineAlertScanPayload(task)
	if err != nil {
		return fmt.Errorf("parse scan payload: %w", err)
	}

	completed, err := w.scanner.Scan(ctx)
	if err != nil {
		return err
	}

	w.log.Info("pipeline alert scan finished",
		slog.Time("requested_at", payload.RequestedAt),
		slog.Int("total", completed.Total),
		slog.Int("raised", len(completed.Raised)),
	)
	return nil
}
