// The sweeper hosts the background expiry pipeline: an asynq worker that runs
// the referral expiry sweep, plus a dispatcher that enqueues a sweep on a
// fixed interval. It runs separately from the API so a slow sweep never
// competes with request traffic.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"usahudhomes_backend/internal/adapters"
	agentsrepo "usahudhomes_backend/internal/agents/repository"
	"usahudhomes_backend/internal/email"
	"usahudhomes_backend/internal/notification"
	referralsrepo "usahudhomes_backend/internal/referrals/repository"
	referralsservice "usahudhomes_backend/internal/referrals/service"
	"usahudhomes_backend/internal/scheduler"
	"usahudhomes_backend/platform/config"
	"usahudhomes_backend/platform/db"
	"usahudhomes_backend/platform/events"
	"usahudhomes_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting sweeper", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Expiry notifications go out from this process, so subscribe here too.
	notificationModule := notification.NewModule(sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	agentProvider := adapters.NewAgentProvider(agentsrepo.New(pool))
	sweepService := referralsservice.New(referralsrepo.New(pool), agentProvider, eventBus, log)

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer client.Close()

	worker, err := scheduler.NewWorker(cfg, sweepService, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	dispatcher := scheduler.NewExpiryDispatcher(cfg, client, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		worker.Run(gctx)
		return nil
	})
	g.Go(func() error {
		dispatcher.Run(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("sweeper stopped", "error", err)
		return
	}
	log.Info("sweeper shut down")
}
