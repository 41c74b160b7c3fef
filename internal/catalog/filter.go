package catalog

import (
	"strconv"
	"strings"

	"github.com/example/litebay/internal/domain/product"
)

const DefaultPageSize = 12

// Filter is the product listing query. Zero values disable a criterion.
type Filter struct {
	Search   string `json:"search,omitempty"`
	Category string `json:"category,omitempty"`
	MinPrice *int   `json:"minPrice,omitempty"`
	MaxPrice *int   `json:"maxPrice,omitempty"`
	Featured bool   `json:"featured,omitempty"`
	New      bool   `json:"new,omitempty"`
	Promo    bool   `json:"promo,omitempty"`
}

// Equal compares filters by value, including the price bounds
func (f Filter) Equal(o Filter) bool {
	return f.Search == o.Search &&
		f.Category == o.Category &&
		equalBound(f.MinPrice, o.MinPrice) &&
		equalBound(f.MaxPrice, o.MaxPrice) &&
		f.Featured == o.Featured &&
		f.New == o.New &&
		f.Promo == o.Promo
}

func equalBound(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ParsePrice returns a bound only when s is numeric, so blank or junk input leaves it unset
func ParsePrice(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func (f Filter) Match(p product.Product) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Featured && !p.Featured {
		return false
	}
	if f.New && !p.New {
		return false
	}
	if f.Promo && !p.OnPromo() {
		return false
	}
	return true
}

// Apply returns the matching products in their original order
func (f Filter) Apply(products []product.Product) []product.Product {
	out := []product.Product{}
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Page is one slice of a filtered listing
type Page struct {
	Items      []product.Product `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}

// Paginate slices products into 1-based pages. An out-of-range page is empty.
func Paginate(products []product.Product, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(products)
	result := Page{
		Items:      []product.Product{},
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
	if page < 1 {
		return result
	}

	start := (page - 1) * pageSize
	if start >= total {
		return result
	}
	end := min(start+pageSize, total)
	result.Items = products[start:end]
	return result
}

// Query filters then paginates
func Query(products []product.Product, f Filter, page, pageSize int) Page {
	return Paginate(f.Apply(products), page, pageSize)
}
