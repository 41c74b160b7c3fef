package catalog

import (
	"sync"

	"github.com/example/litebay/internal/domain/product"
)

// Listing is the state of the product listing page: a filter and the current
// page. Changing the filter always returns to page 1.
type Listing struct {
	mu       sync.Mutex
	filter   Filter
	page     int
	pageSize int
}

func NewListing(pageSize int) *Listing {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Listing{page: 1, pageSize: pageSize}
}

// SetFilter replaces the filter, resetting to page 1 when it differs
func (l *Listing) SetFilter(f Filter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.filter.Equal(f) {
		l.page = 1
	}
	l.filter = f
}

func (l *Listing) SetPage(page int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.page = page
}

func (l *Listing) Filter() Filter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

func (l *Listing) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

func (l *Listing) View(products []product.Product) Page {
	l.mu.Lock()
	f, page, size := l.filter, l.page, l.pageSize
	l.mu.Unlock()
	return Query(products, f, page, size)
}
