package usecase

import (
	"context"
	"log/slog"
	"time"

	"AINewsServer/internal/ports"
)

// RefreshScheduler wires the cron driver to periodic news refreshes.
type RefreshScheduler struct {
	driver ports.Scheduler
	feed   *NewsFeed
	logger *slog.Logger
}

// NewRefreshScheduler returns a helper to start/stop the recurring refresh.
func NewRefreshScheduler(driver ports.Scheduler, feed *NewsFeed, logger *slog.Logger) *RefreshScheduler {
	return &RefreshScheduler{driver: driver, feed: feed, logger: logger}
}

// Start registers the refresh job with the provided scheduler.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.feed == nil {
		return nil
	}

	job := func(trigger time.Time) {
		articles := s.feed.Refresh(ctx)
		if s.logger != nil {
			s.logger.Info("scheduled refresh finished", "trigger", trigger.Format(time.RFC3339), "articles", len(articles))
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *RefreshScheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Stop(ctx)
}
