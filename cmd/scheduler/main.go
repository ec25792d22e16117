package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	crmrepo "roofing_crm_backend/internal/crm/repository"
	crmservice "roofing_crm_backend/internal/crm/service"
	"roofing_crm_backend/internal/email"
	"roofing_crm_backend/internal/events"
	"roofing_crm_backend/internal/notification"
	"roofing_crm_backend/internal/scheduler"
	"roofing_crm_backend/platform/cache"
	"roofing_crm_backend/platform/config"
	"roofing_crm_backend/platform/db"
	"roofing_crm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const cacheKeyPrefix = "roofing-crm"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	if !cfg.IsRedisEnabled() {
		panic("REDIS_URL is required for the scheduler")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	redisClient, err := cache.NewRedisClient(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		log.Error("failed to initialize redis client", "error", err)
		panic("failed to initialize redis client: " + err.Error())
	}
	defer func() { _ = redisClient.Close() }()

	eventBus := events.NewInMemoryBus(log)

	// Alerts raised here reach API dashboards through the Redis relay.
	notificationModule := notification.New(notification.Options{
		Sender:       email.NewSender(cfg),
		DigestTo:     cfg.GetAlertDigestTo(),
		DashboardURL: cfg.GetDashboardURL(),
		Relay:        notification.NewRedisRelay(redisClient, notification.DefaultRelayChannel, log),
	}, log)
	notificationModule.RegisterHandlers(eventBus)
	if !cfg.IsSMTPEnabled() {
		log.Warn("SMTP not configured; alert digest emails disabled")
	}

	// Scans read straight from PostgreSQL, never from the dashboard cache.
	crmSvc := crmservice.New(crmrepo.New(pool), eventBus)
	ledger := scheduler.NewRedisAlertLedger(cache.New(redisClient, cacheKeyPrefix))
	scanner := scheduler.NewAlertScanner(crmSvc, ledger, eventBus, cfg.GetLocation(), cfg.GetAlertDedupTTL(), log)

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	dispatcher := scheduler.NewAlertScanDispatcher(client, cfg.GetAlertScanInterval(), log)
	go dispatcher.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, scanner, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	eventBus.Wait()
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
