package domain

import "time"

// Article is the canonical news entity every provider response is mapped into.
// URL is the identity key: deduplication collapses by it and persistence
// upserts by it.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Content     string    `json:"content,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"urlToImage,omitempty"`
	Source      string    `json:"source"`
	Category    Category  `json:"category"`
	PublishedAt time.Time `json:"publishedAt"`
	AISummary   string    `json:"aiSummary,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// SummarizableText returns the richest non-empty text field, in
// content > description > title priority.
func (a Article) SummarizableText() string {
	switch {
	case a.Content != "":
		return a.Content
	case a.Description != "":
		return a.Description
	default:
		return a.Title
	}
}

// PlaceholderSummary marks articles beyond the enrichment prefix of a run.
const PlaceholderSummary = "AI summary will be available after processing."

// PlaceholderArticle is served instead of an empty list so clients can tell
// "no news yet" apart from a malfunction.
func PlaceholderArticle() Article {
	return Article{
		Title:       "Welcome to AI News Reader!",
		Description: "This is a sample news article. The system is fetching real news articles for you.",
		URL:         "https://example.com",
		Source:      "AI News System",
		Category:    CategoryGeneral,
		PublishedAt: time.Now().UTC(),
		AISummary:   "This is a placeholder article while the system loads real news content.",
	}
}
