package ports

import (
	"context"
	"time"

	"AINewsServer/internal/domain"

	"github.com/google/uuid"
)

// FeedSource pulls articles for one category from an upstream provider.
// Implementations return their transport errors; the aggregation pipeline
// logs them and treats the contribution as empty.
type FeedSource interface {
	Name() string
	Fetch(ctx context.Context, category domain.Category) ([]domain.Article, error)
}

// Summarizer produces a short summary for article text. It never fails:
// when every remote attempt is exhausted it falls back to a local summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}

// ArticleRepository persists canonical articles keyed by URL.
type ArticleRepository interface {
	Upsert(ctx context.Context, article domain.Article) error
	ListByCategories(ctx context.Context, categories []domain.Category, limit int) ([]domain.Article, error)
}

// UserRepository stores account records and their category preferences.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	UpdateCategories(ctx context.Context, id uuid.UUID, categories []domain.Category) error
}

// Scheduler controls when background aggregation runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
