package usecase

import (
	"context"
	"errors"
	"sync"

	"AINewsServer/internal/domain"
)

var errUpsert = errors.New("upsert failed")

// fakeSource serves canned articles per category, or fails every call.
type fakeSource struct {
	name     string
	articles map[domain.Category][]domain.Article
	fail     bool
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Fetch(_ context.Context, category domain.Category) ([]domain.Article, error) {
	if s.fail {
		return nil, errors.New("provider unreachable")
	}
	return s.articles[category], nil
}

// fakeSummarizer records inputs and returns a fixed summary.
type fakeSummarizer struct {
	mu     sync.Mutex
	inputs []string
	result string
}

func (s *fakeSummarizer) Summarize(_ context.Context, text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, text)
	if s.result != "" {
		return s.result
	}
	return "summarized: " + text
}

// fakeRepo stores upserts by URL and serves a canned list.
type fakeRepo struct {
	mu        sync.Mutex
	stored    map[string]domain.Article
	listed    []domain.Article
	listErr   error
	upsertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{stored: map[string]domain.Article{}}
}

func (r *fakeRepo) Upsert(_ context.Context, article domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.stored[article.URL] = article
	return nil
}

func (r *fakeRepo) ListByCategories(_ context.Context, _ []domain.Category, _ int) ([]domain.Article, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.listed, nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stored)
}

func (r *fakeRepo) get(url string) (domain.Article, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.stored[url]
	return a, ok
}
