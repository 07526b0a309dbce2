package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"AINewsServer/internal/ports"
)

// CronScheduler drives the background refresh: once shortly after start,
// then on the configured cron expression.
type CronScheduler struct {
	spec         string
	initialDelay time.Duration
	logger       *slog.Logger
	cron         *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler from a standard 5-field cron spec.
func NewCronScheduler(spec string, initialDelay time.Duration, logger *slog.Logger) *CronScheduler {
	return &CronScheduler{
		spec:         spec,
		initialDelay: initialDelay,
		logger:       logger,
	}
}

// Start registers the job and launches the initial delayed run. Job panics
// or failures must never take the process down; the job itself is expected
// to swallow its errors, this layer only guards scheduling.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if c.cron != nil {
		return nil
	}

	c.cron = cron.New()
	if _, err := c.cron.AddFunc(c.spec, func() { job(time.Now()) }); err != nil {
		c.cron = nil
		return fmt.Errorf("invalid cron expression %q: %w", c.spec, err)
	}

	go func() {
		timer := time.NewTimer(c.initialDelay)
		defer timer.Stop()

		select {
		case <-timer.C:
			if c.logger != nil {
				c.logger.Info("initial refresh starting")
			}
			job(time.Now())
		case <-ctx.Done():
		}
	}()

	c.cron.Start()
	return nil
}

// Stop halts future runs and waits for an in-flight job to finish.
func (c *CronScheduler) Stop(ctx context.Context) error {
	if c.cron == nil {
		return nil
	}

	done := c.cron.Stop().Done()
	c.cron = nil

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
