package usecase

import "AINewsServer/internal/domain"

// dedupeArticles collapses the combined fetch result to one entry per URL,
// keeping the first occurrence and the input order. Articles without a URL
// are dropped outright: without an identity they cannot be upserted, and
// collapsing them into one cohort would merge distinct stories.
func dedupeArticles(articles []domain.Article) []domain.Article {
	seen := make(map[string]struct{}, len(articles))
	unique := make([]domain.Article, 0, len(articles))

	for _, article := range articles {
		if article.URL == "" {
			continue
		}
		if _, ok := seen[article.URL]; ok {
			continue
		}
		seen[article.URL] = struct{}{}
		unique = append(unique, article)
	}

	return unique
}
