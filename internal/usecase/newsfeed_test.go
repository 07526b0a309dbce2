package usecase

import (
	"context"
	"testing"

	"AINewsServer/internal/config"
	"AINewsServer/internal/domain"
	"AINewsServer/internal/ports"
)

func feedConfig() config.FeedConfig {
	return config.FeedConfig{PageSize: 20, MinStored: 5}
}

func storedGeneral(n int) []domain.Article {
	articles := make([]domain.Article, 0, n)
	for i := 0; i < n; i++ {
		articles = append(articles, domain.Article{
			Title:    "stored",
			URL:      "https://example.com/stored" + string(rune('a'+i)),
			Category: domain.CategoryGeneral,
		})
	}
	return articles
}

func TestArticlesForServesSufficientStore(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.listed = storedGeneral(6)

	// No aggregator wired: a refresh attempt would panic the test.
	feed := NewNewsFeed(feedConfig(), repo, nil, nil)

	got := feed.ArticlesFor(context.Background(), []domain.Category{domain.CategoryGeneral})
	if len(got) != 6 {
		t.Fatalf("expected the 6 stored articles, got %d", len(got))
	}
}

func TestArticlesForSparseStoreTriggersRefresh(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.listed = storedGeneral(3)

	source := &fakeSource{
		name:     "newsapi",
		articles: generalArticles("f1", "f2", "f3", "f4", "f5", "f6"),
	}
	agg := NewAggregator(fastAggregationConfig(), AggregatorDeps{
		Sources:    []ports.FeedSource{source},
		Summarizer: &fakeSummarizer{},
		Repository: repo,
	})

	feed := NewNewsFeed(feedConfig(), repo, agg, nil)

	got := feed.ArticlesFor(context.Background(), []domain.Category{domain.CategoryGeneral})
	if len(got) != 6 {
		t.Fatalf("expected the 6 fresh articles over the 3 stale ones, got %d", len(got))
	}
	for _, article := range got {
		if article.Title == "stored" {
			t.Fatalf("stale article leaked into fresh result: %s", article.URL)
		}
	}
}

func TestArticlesForFreshResultFilteredByCategories(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	source := &fakeSource{
		name: "newsapi",
		articles: map[domain.Category][]domain.Article{
			domain.CategoryGeneral: {{Title: "g", URL: "https://example.com/g", Category: domain.CategoryGeneral}},
			domain.CategorySports:  {{Title: "s", URL: "https://example.com/s", Category: domain.CategorySports}},
		},
	}
	agg := NewAggregator(fastAggregationConfig(), AggregatorDeps{
		Sources:    []ports.FeedSource{source},
		Summarizer: &fakeSummarizer{},
		Repository: repo,
	})

	feed := NewNewsFeed(feedConfig(), repo, agg, nil)

	got := feed.ArticlesFor(context.Background(), []domain.Category{domain.CategorySports})
	if len(got) != 1 {
		t.Fatalf("expected only the sports article, got %d", len(got))
	}
	if got[0].Category != domain.CategorySports {
		t.Fatalf("unexpected category: %s", got[0].Category)
	}
}

func TestArticlesForDualEmptyReturnsSentinel(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	agg := NewAggregator(fastAggregationConfig(), AggregatorDeps{
		Sources:    []ports.FeedSource{&fakeSource{name: "newsapi", fail: true}},
		Summarizer: &fakeSummarizer{},
		Repository: repo,
	})

	feed := NewNewsFeed(feedConfig(), repo, agg, nil)

	got := feed.ArticlesFor(context.Background(), []domain.Category{domain.CategoryHealth})
	if len(got) != 1 {
		t.Fatalf("expected exactly one sentinel article, got %d", len(got))
	}
	if got[0].Source != "AI News System" {
		t.Fatalf("expected the sentinel placeholder, got %+v", got[0])
	}
}

func TestArticlesForLookupFailureFallsBackToRefresh(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.listErr = errUpsert

	source := &fakeSource{
		name:     "newsapi",
		articles: generalArticles("f1"),
	}
	agg := NewAggregator(fastAggregationConfig(), AggregatorDeps{
		Sources:    []ports.FeedSource{source},
		Summarizer: &fakeSummarizer{},
		Repository: repo,
	})

	feed := NewNewsFeed(feedConfig(), repo, agg, nil)

	got := feed.ArticlesFor(context.Background(), []domain.Category{domain.CategoryGeneral})
	if len(got) != 1 || got[0].URL != "f1" {
		t.Fatalf("expected the fresh article despite lookup failure, got %+v", got)
	}
}

func TestArticlesForDefaultsCategories(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.listed = storedGeneral(6)

	feed := NewNewsFeed(feedConfig(), repo, nil, nil)

	got := feed.ArticlesFor(context.Background(), nil)
	if len(got) != 6 {
		t.Fatalf("expected stored general articles for nil categories, got %d", len(got))
	}
}
