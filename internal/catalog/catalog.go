// Package catalog serves the read-only fixture data: products, news and
// categories, plus the pure functions the storefront pages are built from.
package catalog

import (
	"sync/atomic"

	"github.com/example/litebay/internal/domain/collection"
	"github.com/example/litebay/internal/domain/product"
)

type News struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Author   string `json:"author"`
	Views    int    `json:"views"`
	Image    string `json:"image"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
	Icon string `json:"icon,omitempty"`
}

// Fixtures is one consistent load of every fixture file
type Fixtures struct {
	Products   []product.Product
	News       []News
	Categories []Category
}

// Catalog holds the current fixtures. Readers get a consistent snapshot while
// a reload swaps in a new one atomically. Returned slices must not be modified.
type Catalog struct {
	current atomic.Pointer[Fixtures]
}

func NewCatalog(f Fixtures) *Catalog {
	c := &Catalog{}
	c.Replace(f)
	return c
}

func (c *Catalog) Replace(f Fixtures) {
	c.current.Store(&f)
}

func (c *Catalog) Snapshot() Fixtures {
	return *c.current.Load()
}

func (c *Catalog) Products() []product.Product {
	return c.current.Load().Products
}

func (c *Catalog) News() []News {
	return c.current.Load().News
}

func (c *Catalog) Categories() []Category {
	return c.current.Load().Categories
}

func (c *Catalog) Product(id int64) (product.Product, bool) {
	return collection.Find(c.Products(), func(p product.Product) bool { return p.ID == id })
}

// ByIDs returns the products whose id is in ids, in catalog order
func ByIDs(products []product.Product, ids []int64) []product.Product {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	out := []product.Product{}
	for _, p := range products {
		if _, ok := want[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// ClampQuantity bounds a requested quantity into [1, stock] for the detail
// page selector. The cart itself does not enforce stock.
func ClampQuantity(p product.Product, quantity int) int {
	if quantity < 1 {
		quantity = 1
	}
	if p.Stock > 0 && quantity > p.Stock {
		quantity = p.Stock
	}
	return quantity
}
