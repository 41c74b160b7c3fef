package catalog

import "github.com/example/litebay/internal/domain/collection"

const relatedNewsLimit = 3

// FilterNews keeps articles of category; an empty category keeps everything
func FilterNews(items []News, category string) []News {
	if category == "" {
		return items
	}
	out := []News{}
	for _, n := range items {
		if n.Category == category {
			out = append(out, n)
		}
	}
	return out
}

// NewsCategories lists distinct categories in first-seen order
func NewsCategories(items []News) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, n := range items {
		if !seen[n.Category] {
			seen[n.Category] = true
			out = append(out, n.Category)
		}
	}
	return out
}

func NewsByID(items []News, id int64) (News, bool) {
	return collection.Find(items, func(n News) bool { return n.ID == id })
}

// RelatedNews returns up to three other articles from the same category
func RelatedNews(items []News, article News) []News {
	out := []News{}
	for _, n := range items {
		if len(out) == relatedNewsLimit {
			break
		}
		if n.Category == article.Category && n.ID != article.ID {
			out = append(out, n)
		}
	}
	return out
}
