package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"usahudhomes_backend/internal/adapters"
	"usahudhomes_backend/internal/agents"
	"usahudhomes_backend/internal/auth"
	"usahudhomes_backend/internal/email"
	apphttp "usahudhomes_backend/internal/http"
	"usahudhomes_backend/internal/http/router"
	"usahudhomes_backend/internal/notification"
	"usahudhomes_backend/internal/properties"
	"usahudhomes_backend/internal/referrals"
	"usahudhomes_backend/internal/webhook"
	"usahudhomes_backend/migrations"
	"usahudhomes_backend/platform/config"
	"usahudhomes_backend/platform/db"
	"usahudhomes_backend/platform/events"
	"usahudhomes_backend/platform/logger"
	"usahudhomes_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	val, err := validator.New()
	if err != nil {
		log.Error("failed to initialize validator", "error", err)
		panic("failed to initialize validator: " + err.Error())
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.NewModule(sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	agentsModule := agents.NewModule(pool, val, log)
	authModule := auth.NewModule(agentsModule.Repository(), cfg, val, log)

	// Referrals depend on the agent directory only through the provider port
	agentProvider := adapters.NewAgentProvider(agentsModule.Repository())
	referralsModule := referrals.NewModule(pool, agentProvider, eventBus, val, log)

	propertiesModule := properties.NewModule(pool, cfg, val, log)

	leadCreator := adapters.NewLeadConsultationCreator(referralsModule.Service())
	webhookModule := webhook.NewModule(leadCreator, cfg, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			agentsModule,
			referralsModule,
			propertiesModule,
			webhookModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
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
