package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"AINewsServer/internal/config"
	"AINewsServer/internal/infrastructure/api"
	"AINewsServer/internal/infrastructure/auth"
	"AINewsServer/internal/infrastructure/feeds"
	"AINewsServer/internal/infrastructure/llm"
	"AINewsServer/internal/infrastructure/scheduler"
	"AINewsServer/internal/infrastructure/storage"
	"AINewsServer/internal/logging"
	"AINewsServer/internal/ports"
	"AINewsServer/internal/usecase"
)

// Application wires configuration to adapters, use cases, and lifecycle.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sql.DB
	server    *api.Server
	scheduler *usecase.RefreshScheduler
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	articleRepo := storage.NewPostgresArticleRepository(db)
	userRepo := storage.NewPostgresUserRepository(db)

	fetchClient := &http.Client{Timeout: cfg.Aggregation.FetchTimeout()}

	sources := []ports.FeedSource{
		feeds.NewNewsAPISource(cfg.NewsAPI, fetchClient, baseLogger.With("component", "source.newsapi")),
		feeds.NewGNewsSource(cfg.GNews, fetchClient, baseLogger.With("component", "source.gnews")),
	}
	if len(cfg.RSS.Feeds) > 0 {
		sources = append(sources, feeds.NewRSSSource(cfg.RSS, fetchClient, baseLogger.With("component", "source.rss")))
	}

	summarizer := llm.NewPerplexityClient(cfg.Perplexity, baseLogger.With("component", "summarizer"))

	aggregator := usecase.NewAggregator(cfg.Aggregation, usecase.AggregatorDeps{
		Sources:    sources,
		Summarizer: summarizer,
		Repository: articleRepo,
		Logger:     baseLogger.With("component", "aggregator"),
	})

	newsFeed := usecase.NewNewsFeed(cfg.Feed, articleRepo, aggregator, baseLogger.With("component", "newsfeed"))

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	handler := api.NewHandler(userRepo, jwtManager, newsFeed, cfg.Perplexity.Models, baseLogger.With("component", "api"))
	server := api.NewServer(cfg.Server, handler, jwtManager, baseLogger.With("component", "http"))

	cronDriver := scheduler.NewCronScheduler(
		cfg.Scheduler.CronExpression,
		cfg.Scheduler.InitialDelay(),
		baseLogger.With("component", "scheduler"),
	)
	refresh := usecase.NewRefreshScheduler(cronDriver, newsFeed, baseLogger.With("component", "refresh"))

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		db:        db,
		server:    server,
		scheduler: refresh,
	}, nil
}

// Run starts the background refresh and serves HTTP until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := a.db.PingContext(pingCtx); err != nil {
		a.logger.Warn("database unreachable at startup", "error", err)
	}
	cancel()

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		if stopErr := a.scheduler.Stop(stopCtx); stopErr != nil {
			a.logger.Warn("scheduler stop failed", "error", stopErr)
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		a.logger.Warn("scheduler stop failed", "error", err)
	}
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("server shutdown failed", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("database close failed", "error", err)
	}

	return nil
}
