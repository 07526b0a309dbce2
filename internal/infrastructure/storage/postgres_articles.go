package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"AINewsServer/internal/domain"
	"AINewsServer/internal/ports"
)

// PostgresArticleRepository persists canonical articles keyed by URL.
type PostgresArticleRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ArticleRepository = (*PostgresArticleRepository)(nil)

// NewPostgresArticleRepository wires a sql.DB implementation.
func NewPostgresArticleRepository(db *sql.DB) *PostgresArticleRepository {
	return &PostgresArticleRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Upsert inserts the article or, when the URL already exists, refreshes the
// stored snapshot. Re-observing a URL must never duplicate it.
func (r *PostgresArticleRepository) Upsert(ctx context.Context, article domain.Article) error {
	if r.db == nil {
		return nil
	}

	query := `INSERT INTO articles (url, title, description, content, image_url, source, category, published_at, ai_summary)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              ON CONFLICT (url) DO UPDATE
              SET title = EXCLUDED.title,
                  description = EXCLUDED.description,
                  content = EXCLUDED.content,
                  image_url = EXCLUDED.image_url,
                  source = EXCLUDED.source,
                  category = EXCLUDED.category,
                  published_at = EXCLUDED.published_at,
                  ai_summary = EXCLUDED.ai_summary`

	_, err := r.db.ExecContext(ctx, query,
		article.URL,
		article.Title,
		article.Description,
		article.Content,
		article.ImageURL,
		article.Source,
		article.Category,
		article.PublishedAt,
		article.AISummary,
	)
	if err != nil {
		return fmt.Errorf("upsert article: %w", err)
	}

	return nil
}

// ListByCategories returns the newest stored articles for the categories,
// bounded to limit.
func (r *PostgresArticleRepository) ListByCategories(ctx context.Context, categories []domain.Category, limit int) ([]domain.Article, error) {
	if r.db == nil || len(categories) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}

	query, args, err := r.builder.
		Select("url", "title", "description", "content", "image_url", "source", "category", "published_at", "ai_summary", "created_at").
		From("articles").
		Where(sq.Eq{"category": names}).
		OrderBy("published_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build article query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var article domain.Article
		err := rows.Scan(
			&article.URL,
			&article.Title,
			&article.Description,
			&article.Content,
			&article.ImageURL,
			&article.Source,
			&article.Category,
			&article.PublishedAt,
			&article.AISummary,
			&article.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return articles, nil
}
