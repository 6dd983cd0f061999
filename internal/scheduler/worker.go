package scheduler

import (
	"context"
	"fmt"

	referralsservice "usahudhomes_backend/internal/referrals/service"
	"usahudhomes_backend/platform/config"
	"usahudhomes_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// ExpirySweeper runs one pass over overdue referrals.
type ExpirySweeper interface {
	ProcessExpired(ctx context.Context) (referralsservice.ExpirySummary, error)
}

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	sweeper ExpirySweeper
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sweeper ExpirySweeper, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		sweeper: sweeper,
		log:     log,
	}

	mux.HandleFunc(TaskReferralExpirySweep, w.handleReferralExpirySweep)

	return w, nil
}

func (w *Worker) handleReferralExpirySweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseReferralExpirySweepPayload(task)
	if err != nil {
		return err
	}

	summary, err := w.sweeper.ProcessExpired(ctx)
	if err != nil {
		return err
	}

	w.log.Info("expiry sweep completed",
		"requested_at", payload.RequestedAt,
		"expired", summary.Expired,
		"reassigned", summary.Reassigned,
		"failures", len(summary.Failures))

	for _, failure := range summary.Failures {
		w.log.Warn("expiry sweep row failure", "detail", failure)
	}

	return nil
}

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
