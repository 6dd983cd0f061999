package scheduler

import (
	"context"
	"time"

	"usahudhomes_backend/platform/config"
	"usahudhomes_backend/platform/logger"
)

// ExpiryDispatcher enqueues a referral expiry sweep on a fixed interval.
// The sweep itself is idempotent, so a missed or duplicate tick is harmless.
type ExpiryDispatcher struct {
	client   *Client
	interval time.Duration
	log      *logger.Logger
}

func NewExpiryDispatcher(cfg config.SchedulerConfig, client *Client, log *logger.Logger) *ExpiryDispatcher {
	interval := cfg.GetSweepInterval()
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &ExpiryDispatcher{
		client:   client,
		interval: interval,
		log:      log,
	}
}

func (d *ExpiryDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	d.log.Info("expiry dispatcher started", "interval", d.interval.String())

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := d.client.EnqueueExpirySweep(ctx, time.Now()); err != nil {
			d.log.Warn("failed to enqueue expiry sweep", "error", err)
		}
	}
}
