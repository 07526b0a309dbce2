package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"AINewsServer/internal/config"
	"AINewsServer/internal/domain"
	"AINewsServer/internal/ports"
)

// Aggregator orchestrates the fetch → dedupe → enrich → persist run.
type Aggregator struct {
	sources       []ports.FeedSource
	summarizer    ports.Summarizer
	repository    ports.ArticleRepository
	enrichLimit   int
	categoryDelay time.Duration
	summaryDelay  time.Duration
	fetchTimeout  time.Duration
	logger        *slog.Logger
}

// AggregatorDeps wires the driven adapters into the pipeline.
type AggregatorDeps struct {
	Sources    []ports.FeedSource
	Summarizer ports.Summarizer
	Repository ports.ArticleRepository
	Logger     *slog.Logger
}

// NewAggregator constructs the pipeline with pacing taken from config.
func NewAggregator(cfg config.AggregationConfig, deps AggregatorDeps) *Aggregator {
	enrichLimit := cfg.EnrichLimit
	if enrichLimit <= 0 {
		enrichLimit = 5
	}
	return &Aggregator{
		sources:       deps.Sources,
		summarizer:    deps.Summarizer,
		repository:    deps.Repository,
		enrichLimit:   enrichLimit,
		categoryDelay: cfg.CategoryDelay(),
		summaryDelay:  cfg.SummaryDelay(),
		fetchTimeout:  cfg.FetchTimeout(),
		logger:        deps.Logger,
	}
}

// Run executes one full aggregation pass over every category and source.
// It never fails: every source, summarization, and persistence error is
// logged and isolated, and the worst case is an empty result meaning "no
// fresh data available".
func (a *Aggregator) Run(ctx context.Context) []domain.Article {
	a.info("aggregation run started", "sources", len(a.sources))

	combined := a.fetchAll(ctx)
	a.info("fetch phase done", "articles", len(combined))

	unique := dedupeArticles(combined)
	a.info("dedupe done", "articles", len(unique))

	return a.enrich(ctx, unique)
}

// fetchAll walks categories sequentially with a pacing delay between them
// (upstream rate limits throttle bursty clients), fanning out across
// sources inside each category.
func (a *Aggregator) fetchAll(ctx context.Context) []domain.Article {
	categories := domain.AllCategories()
	var combined []domain.Article

	for i, category := range categories {
		combined = append(combined, a.fetchCategory(ctx, category)...)

		if i < len(categories)-1 && !sleepCtx(ctx, a.categoryDelay) {
			a.warn("aggregation cancelled between categories", "category", category)
			break
		}
	}

	return combined
}

// fetchCategory queries every source concurrently and joins the results.
// A failing source contributes nothing; the others are unaffected.
func (a *Aggregator) fetchCategory(ctx context.Context, category domain.Category) []domain.Article {
	results := make([][]domain.Article, len(a.sources))

	var wg sync.WaitGroup
	for i, source := range a.sources {
		wg.Add(1)
		go func(i int, source ports.FeedSource) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
			defer cancel()

			articles, err := source.Fetch(fetchCtx, category)
			if err != nil {
				a.warn("source fetch failed", "source", source.Name(), "category", category, "error", err)
				return
			}
			results[i] = articles
		}(i, source)
	}
	wg.Wait()

	var merged []domain.Article
	for _, articles := range results {
		merged = append(merged, articles...)
	}
	return merged
}

// enrich summarizes the leading enrichLimit articles strictly one at a time
// with a pacing delay between calls (the summarization API enforces a low
// per-minute quota), stamps the remainder with a placeholder, and upserts
// every article as soon as it is final.
func (a *Aggregator) enrich(ctx context.Context, articles []domain.Article) []domain.Article {
	prefix := a.enrichLimit
	if prefix > len(articles) {
		prefix = len(articles)
	}

	for i := range articles[:prefix] {
		article := &articles[i]
		article.AISummary = a.summarizer.Summarize(ctx, article.SummarizableText())
		a.persist(ctx, *article)

		if i < prefix-1 && !sleepCtx(ctx, a.summaryDelay) {
			a.warn("aggregation cancelled during enrichment", "done", i+1)
			// Remaining enrichment slots fall through to placeholders.
			prefix = i + 1
			break
		}
	}

	for i := range articles[prefix:] {
		article := &articles[prefix+i]
		article.AISummary = domain.PlaceholderSummary
		a.persist(ctx, *article)
	}

	a.info("aggregation run finished", "enriched", prefix, "total", len(articles))
	return articles
}

func (a *Aggregator) persist(ctx context.Context, article domain.Article) {
	if a.repository == nil {
		return
	}
	if err := a.repository.Upsert(ctx, article); err != nil {
		a.warn("article upsert failed", "url", article.URL, "error", err)
	}
}

// sleepCtx pauses for d, returning false if the context ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (a *Aggregator) info(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Info(msg, args...)
	}
}

func (a *Aggregator) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
