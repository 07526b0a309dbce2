package usecase

import (
	"context"
	"log/slog"

	"AINewsServer/internal/config"
	"AINewsServer/internal/domain"
	"AINewsServer/internal/ports"
)

// NewsFeed decides, per read request, whether stored articles suffice or a
// live aggregation run is needed.
type NewsFeed struct {
	repository ports.ArticleRepository
	aggregator *Aggregator
	pageSize   int
	minStored  int
	logger     *slog.Logger
}

// NewNewsFeed constructs the read-side policy with thresholds from config.
func NewNewsFeed(cfg config.FeedConfig, repository ports.ArticleRepository, aggregator *Aggregator, logger *slog.Logger) *NewsFeed {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	minStored := cfg.MinStored
	if minStored <= 0 {
		minStored = 5
	}
	return &NewsFeed{
		repository: repository,
		aggregator: aggregator,
		pageSize:   pageSize,
		minStored:  minStored,
		logger:     logger,
	}
}

// ArticlesFor returns up to one page of articles for the requested
// categories, newest first. A sparse store triggers a synchronous
// aggregation run whose non-empty filtered result is preferred over the
// stale rows. When both yield nothing a single placeholder article is
// returned, never an empty list: callers cannot tell "no news" from "broken"
// otherwise.
func (f *NewsFeed) ArticlesFor(ctx context.Context, categories []domain.Category) []domain.Article {
	if len(categories) == 0 {
		categories = domain.DefaultCategories()
	}

	stored, err := f.repository.ListByCategories(ctx, categories, f.pageSize)
	if err != nil {
		f.warn("stored article lookup failed", "error", err)
		stored = nil
	}
	f.info("stored articles loaded", "count", len(stored), "categories", len(categories))

	if len(stored) < f.minStored && f.aggregator != nil {
		f.info("store below threshold, refreshing", "stored", len(stored), "threshold", f.minStored)

		fresh := domain.FilterByCategories(f.aggregator.Run(ctx), categories)
		if len(fresh) > f.pageSize {
			fresh = fresh[:f.pageSize]
		}
		if len(fresh) > 0 {
			return fresh
		}
	}

	if len(stored) == 0 {
		return []domain.Article{domain.PlaceholderArticle()}
	}
	return stored
}

// Refresh runs the aggregation pipeline once; used by the manual endpoint
// and the background scheduler.
func (f *NewsFeed) Refresh(ctx context.Context) []domain.Article {
	if f.aggregator == nil {
		return nil
	}
	return f.aggregator.Run(ctx)
}

func (f *NewsFeed) info(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Info(msg, args...)
	}
}

func (f *NewsFeed) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}
