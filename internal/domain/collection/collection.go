// Package collection holds the pieces shared by every repository: a JSON list
// persisted under one key, clock-derived identities, and id parsing.
package collection

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/example/litebay/internal/infrastructure/kv"
)

var ErrInvalidID = errors.New("invalid id")

// List is an ordered collection of T stored as one JSON array under key.
// The mutex serialises read-modify-write cycles within the process; other
// writers sharing the backend still race with last-write-wins semantics.
type List[T any] struct {
	mu    sync.Mutex
	store kv.Store
	key   string
}

func NewList[T any](store kv.Store, key string) *List[T] {
	return &List[T]{store: store, key: key}
}

func (l *List[T]) Key() string {
	return l.key
}

// All returns the stored items in insertion order, or an empty slice when
// nothing usable is stored.
func (l *List[T]) All(ctx context.Context) []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

// Update loads the list, applies fn and persists the result
func (l *List[T]) Update(ctx context.Context, fn func(items []T) []T) error {
	return l.TryUpdate(ctx, func(items []T) ([]T, error) {
		return fn(items), nil
	})
}

// TryUpdate is Update for changes that can be refused. When fn returns an
// error nothing is written and the error is returned as is.
func (l *List[T]) TryUpdate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	items, err := fn(l.load(ctx))
	if err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	return kv.SetJSON(ctx, l.store, l.key, items)
}

// Append adds item to the end of the list
func (l *List[T]) Append(ctx context.Context, item T) error {
	return l.Update(ctx, func(items []T) []T {
		return append(items, item)
	})
}

func (l *List[T]) load(ctx context.Context) []T {
	items, ok := kv.GetJSON[[]T](ctx, l.store, l.key)
	if !ok || items == nil {
		return []T{}
	}
	return items
}

// Find returns the first item matching pred
func Find[T any](items []T, pred func(T) bool) (T, bool) {
	for _, item := range items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// ParseID converts a textual id (e.g. from a URL) into the canonical numeric form
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}
