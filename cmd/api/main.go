package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roofing_crm_backend/internal/adapters"
	"roofing_crm_backend/internal/assistant"
	assistantagent "roofing_crm_backend/internal/assistant/agent"
	assistantservice "roofing_crm_backend/internal/assistant/service"
	"roofing_crm_backend/internal/crm"
	"roofing_crm_backend/internal/events"
	"roofing_crm_backend/internal/followups"
	apphttp "roofing_crm_backend/internal/http"
	"roofing_crm_backend/internal/http/router"
	"roofing_crm_backend/internal/notification"
	"roofing_crm_backend/platform/cache"
	"roofing_crm_backend/platform/config"
	"roofing_crm_backend/platform/db"
	"roofing_crm_backend/platform/logger"
	"roofing_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "roofing-crm"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

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
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	redisClient := initRedis(cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module pushes live updates to connected dashboards
	notificationModule := notification.New(notification.Options{}, log)
	notificationModule.RegisterHandlers(eventBus)
	defer notificationModule.SSE().Close()

	if redisClient != nil {
		relay := notification.NewRedisRelay(redisClient, notification.DefaultRelayChannel, log)
		go func() {
			if err := relay.Run(ctx, notificationModule.SSE()); err != nil {
				log.Error("sse relay stopped", "error", err)
			}
		}()
	}

	crmModule := crm.NewModule(pool, eventBus, val)

	// Anti-Corruption Layer: the dashboard reads CRM snapshots through an
	// adapter that owns the Redis cache.
	var snapshotCache *cache.JSONCache
	if redisClient != nil {
		snapshotCache = cache.New(redisClient, cacheKeyPrefix)
	}
	snapshotReader := adapters.NewCRMSnapshotReader(crmModule.Service(), snapshotCache, cfg.GetSnapshotCacheTTL(), log)
	followupsModule := followups.NewModule(snapshotReader, snapshotReader, cfg.GetLocation(), log)
	followupsModule.RegisterHandlers(eventBus)

	assistantModule := assistant.NewModule(initTaskDrafter(ctx, cfg, log), val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			crmModule,
			followupsModule,
			notificationModule,
			assistantModule,
		},
	}

	engine := router.New(app)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		// SSE streams never finish on their own.
		notificationModule.SSE().Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRedis(cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	if !cfg.IsRedisEnabled() {
		log.Warn("REDIS_URL not configured; snapshot cache and live alert relay disabled")
		return nil
	}

	client, err := cache.NewRedisClient(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		log.Error("failed to initialize redis client", "error", err)
		return nil
	}
	return client
}

func initTaskDrafter(ctx context.Context, cfg config.AIConfig, log *logger.Logger) assistantservice.TaskDrafter {
	if !cfg.IsAIEnabled() {
		log.Warn("AI_API_KEY not configured; follow-up task drafting disabled")
		return nil
	}

	llm, err := assistantagent.NewModel(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize AI model", "error", err)
		return nil
	}
	drafter, err := assistantagent.NewTaskDrafter(llm)
	if err != nil {
		log.Error("failed to initialize task drafter", "error", err)
		return nil
	}
	log.Info("task drafter initialized", "provider", cfg.GetAIProvider(), "model", llm.Name())
	return drafter
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
