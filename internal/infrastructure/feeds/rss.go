package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"AINewsServer/internal/config"
	"AINewsServer/internal/domain"
	"AINewsServer/internal/ports"
)

// RSSSource serves categories from configured RSS/Atom feeds. It covers
// outlets the headline APIs miss; the category→feed table lives in config.
type RSSSource struct {
	feeds  map[domain.Category]string
	parser *gofeed.Parser
	logger *slog.Logger
}

var _ ports.FeedSource = (*RSSSource)(nil)

// NewRSSSource builds the adapter from the configured category→URL table.
func NewRSSSource(cfg config.RSSConfig, client *http.Client, logger *slog.Logger) *RSSSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	feeds := make(map[domain.Category]string, len(cfg.Feeds))
	for name, feedURL := range cfg.Feeds {
		category := domain.Category(name)
		if !domain.ValidCategory(category) {
			if logger != nil {
				logger.Warn("skipping rss feed with unknown category", "category", name)
			}
			continue
		}
		feeds[category] = feedURL
	}

	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = "AINewsServer/1.0"

	return &RSSSource{feeds: feeds, parser: parser, logger: logger}
}

// Name identifies the source in logs and configuration.
func (s *RSSSource) Name() string {
	return "rss"
}

// Fetch parses the feed configured for the category, if any. Categories
// without a feed contribute nothing and are not an error.
func (s *RSSSource) Fetch(ctx context.Context, category domain.Category) ([]domain.Article, error) {
	feedURL, ok := s.feeds[category]
	if !ok {
		return nil, nil
	}

	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("rss %s: %w", category, err)
	}

	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = "RSS"
	}

	articles := make([]domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		published := time.Now().UTC()
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		}

		var image string
		if item.Image != nil {
			image = item.Image.URL
		}

		articles = append(articles, domain.Article{
			Title:       strings.TrimSpace(item.Title),
			Description: htmlToText(item.Description),
			Content:     htmlToText(item.Content),
			URL:         item.Link,
			ImageURL:    image,
			Source:      source,
			Category:    category,
			PublishedAt: published,
		})
	}

	if s.logger != nil {
		s.logger.Debug("fetched", "category", category, "count", len(articles))
	}
	return articles, nil
}

// htmlToText flattens RSS description markup into plain text for
// summarization and display.
func htmlToText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" || !strings.Contains(fragment, "<") {
		return fragment
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
