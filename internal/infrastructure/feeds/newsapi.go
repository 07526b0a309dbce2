package feeds

import (
	"context"
	"encoding/json"
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

const defaultSourceName = "Unknown"

// NewsAPISource fetches top headlines from newsapi.org.
type NewsAPISource struct {
	baseURL  string
	apiKey   string
	country  string
	pageSize int
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.FeedSource = (*NewsAPISource)(nil)

// NewNewsAPISource builds the adapter; a nil client gets a 10s-timeout default.
func NewNewsAPISource(cfg config.NewsAPIConfig, client *http.Client, logger *slog.Logger) *NewsAPISource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 3
	}
	return &NewsAPISource{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		country:  cfg.Country,
		pageSize: pageSize,
		client:   client,
		logger:   logger,
	}
}

// Name identifies the source in logs and configuration.
func (s *NewsAPISource) Name() string {
	return "newsapi"
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Content     string    `json:"content"`
		URL         string    `json:"url"`
		URLToImage  string    `json:"urlToImage"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

// Fetch pulls top headlines for a category and maps them onto the canonical
// article shape. The requested category is stamped on every result because it
// drives user preference filtering later, regardless of provider metadata.
func (s *NewsAPISource) Fetch(ctx context.Context, category domain.Category) ([]domain.Article, error) {
	query := url.Values{}
	query.Set("country", s.country)
	query.Set("category", string(category))
	query.Set("pageSize", strconv.Itoa(s.pageSize))
	query.Set("apiKey", s.apiKey)

	var payload newsAPIResponse
	if err := getJSON(ctx, s.client, s.baseURL, query, &payload); err != nil {
		return nil, fmt.Errorf("newsapi %s: %w", category, err)
	}

	articles := make([]domain.Article, 0, len(payload.Articles))
	for _, item := range payload.Articles {
		source := item.Source.Name
		if source == "" {
			source = defaultSourceName
		}
		articles = append(articles, domain.Article{
			Title:       item.Title,
			Description: item.Description,
			Content:     item.Content,
			URL:         item.URL,
			ImageURL:    item.URLToImage,
			Source:      source,
			Category:    category,
			PublishedAt: item.PublishedAt,
		})
	}

	s.debug("fetched", "category", category, "count", len(articles))
	return articles, nil
}

func (s *NewsAPISource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

// getJSON issues a GET with query parameters and decodes a JSON body.
func getJSON(ctx context.Context, client *http.Client, base string, query url.Values, v any) error {
	parsed, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid base url %s: %w", base, err)
	}
	parsed.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "AINewsServer/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
