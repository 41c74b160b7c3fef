package catalog

import "github.com/example/litebay/internal/domain/product"

const (
	homeProductLimit = 6
	homeNewsLimit    = 3
)

type Home struct {
	Featured []product.Product `json:"featured"`
	New      []product.Product `json:"new"`
	News     []News            `json:"news"`
}

// BuildHome picks the first six featured, the first six new and the first three articles
func BuildHome(products []product.Product, news []News) Home {
	return Home{
		Featured: firstN(Filter{Featured: true}.Apply(products), homeProductLimit),
		New:      firstN(Filter{New: true}.Apply(products), homeProductLimit),
		News:     firstN(news, homeNewsLimit),
	}
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	if items == nil {
		return []T{}
	}
	return items
}
