package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"AINewsServer/internal/config"
	"AINewsServer/internal/domain"
	"AINewsServer/internal/ports"
)

// gnewsCategories translates canonical categories into GNews topic names.
// Today the two enums coincide, but the table keeps provider divergence out
// of shared logic.
var gnewsCategories = map[domain.Category]string{
	domain.CategoryBusiness:      "business",
	domain.CategoryEntertainment: "entertainment",
	domain.CategoryGeneral:       "general",
	domain.CategoryHealth:        "health",
	domain.CategoryScience:       "science",
	domain.CategorySports:        "sports",
	domain.CategoryTechnology:    "technology",
}

// GNewsSource fetches top headlines from gnews.io.
type GNewsSource struct {
	baseURL  string
	apiKey   string
	lang     string
	pageSize int
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.FeedSource = (*GNewsSource)(nil)

// NewGNewsSource builds the adapter; a nil client gets a 10s-timeout default.
func NewGNewsSource(cfg config.GNewsConfig, client *http.Client, logger *slog.Logger) *GNewsSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 3
	}
	return &GNewsSource{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		lang:     cfg.Lang,
		pageSize: pageSize,
		client:   client,
		logger:   logger,
	}
}

// Name identifies the source in logs and configuration.
func (s *GNewsSource) Name() string {
	return "gnews"
}

type gnewsResponse struct {
	Articles []struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Content     string    `json:"content"`
		URL         string    `json:"url"`
		Image       string    `json:"image"`
		PublishedAt time.Time `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Fetch pulls top headlines for a category, mapping GNews field names
// (image, source.name) onto the canonical shape.
func (s *GNewsSource) Fetch(ctx context.Context, category domain.Category) ([]domain.Article, error) {
	topic, ok := gnewsCategories[category]
	if !ok {
		topic = string(domain.CategoryGeneral)
	}

	query := url.Values{}
	query.Set("category", topic)
	query.Set("lang", s.lang)
	query.Set("max", strconv.Itoa(s.pageSize))
	query.Set("apikey", s.apiKey)

	var payload gnewsResponse
	if err := getJSON(ctx, s.client, s.baseURL, query, &payload); err != nil {
		return nil, fmt.Errorf("gnews %s: %w", category, err)
	}

	articles := make([]domain.Article, 0, len(payload.Articles))
	for _, item := range payload.Articles {
		source := item.Source.Name
		if source == "" {
			source = "GNews"
		}
		articles = append(articles, domain.Article{
			Title:       item.Title,
			Description: item.Description,
			Content:     item.Content,
			URL:         item.URL,
			ImageURL:    item.Image,
			Source:      source,
			Category:    category,
			PublishedAt: item.PublishedAt,
		})
	}

	s.debug("fetched", "category", category, "count", len(articles))
	return articles, nil
}

func (s *GNewsSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
