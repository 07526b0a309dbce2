package app

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"AINewsServer/internal/config"
	"AINewsServer/internal/infrastructure/api"
	"AINewsServer/internal/infrastructure/auth"
	"AINewsServer/internal/logging"
	"AINewsServer/internal/usecase"
)

// recordingScheduler tracks lifecycle calls from Run.
type recordingScheduler struct {
	started bool
	stopped bool
}

func (s *recordingScheduler) Start(context.Context, func(time.Time)) error {
	s.started = true
	return nil
}

func (s *recordingScheduler) Stop(context.Context) error {
	s.stopped = true
	return nil
}

func TestRunStopsSchedulerWhenListenerFails(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	logger := logging.New("error")
	jwtManager := auth.NewJWTManager("test-secret-key-32-chars-minimum", time.Hour)
	feed := usecase.NewNewsFeed(config.FeedConfig{}, nil, nil, nil)
	handler := api.NewHandler(nil, jwtManager, feed, nil, nil)

	// An invalid port makes ListenAndServe fail immediately.
	server := api.NewServer(config.ServerConfig{ListenAddr: "127.0.0.1:-1"}, handler, jwtManager, logger)

	driver := &recordingScheduler{}
	application := &Application{
		logger:    logger,
		db:        db,
		server:    server,
		scheduler: usecase.NewRefreshScheduler(driver, feed, nil),
	}

	if err := application.Run(context.Background()); err == nil {
		t.Fatal("expected a listener error")
	}
	if !driver.started {
		t.Fatal("scheduler was never started")
	}
	if !driver.stopped {
		t.Fatal("scheduler must be stopped when the listener fails")
	}
}
