package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

// Slugify turns a display name into a URL slug, folding Vietnamese
// diacritics to their base letters ("Điện thoại" becomes "dien-thoai").
func Slugify(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}
	// đ has no decomposition
	folded = strings.NewReplacer("đ", "d", "Đ", "d").Replace(folded)

	slug := strings.ToLower(folded)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = hyphenRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// withSlugs fills in the slug of categories whose fixture omits it
func withSlugs(categories []Category) []Category {
	for i := range categories {
		if categories[i].Slug == "" {
			categories[i].Slug = Slugify(categories[i].Name)
		}
	}
	return categories
}
