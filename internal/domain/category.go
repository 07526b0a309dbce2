package domain

// Category is one of the fixed set shared by feed providers and user
// preferences.
type Category string

const (
	CategoryBusiness      Category = "business"
	CategoryEntertainment Category = "entertainment"
	CategoryGeneral       Category = "general"
	CategoryHealth        Category = "health"
	CategoryScience       Category = "science"
	CategorySports        Category = "sports"
	CategoryTechnology    Category = "technology"
)

// AllCategories returns the full fetchable set in a stable order.
func AllCategories() []Category {
	return []Category{
		CategoryBusiness,
		CategoryEntertainment,
		CategoryGeneral,
		CategoryHealth,
		CategoryScience,
		CategorySports,
		CategoryTechnology,
	}
}

// DefaultCategories is used when a caller has no stored preferences.
func DefaultCategories() []Category {
	return []Category{CategoryGeneral}
}

// ValidCategory reports whether c belongs to the fixed set.
func ValidCategory(c Category) bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// FilterByCategories keeps articles whose category is in the requested set,
// preserving input order.
func FilterByCategories(articles []Article, categories []Category) []Article {
	wanted := make(map[Category]struct{}, len(categories))
	for _, c := range categories {
		wanted[c] = struct{}{}
	}

	filtered := make([]Article, 0, len(articles))
	for _, article := range articles {
		if _, ok := wanted[article.Category]; ok {
			filtered = append(filtered, article)
		}
	}
	return filtered
}
