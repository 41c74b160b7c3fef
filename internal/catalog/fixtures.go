package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/example/litebay/internal/domain/product"
	"github.com/example/litebay/internal/logger"
)

const (
	ProductsFile   = "products.json"
	NewsFile       = "news.json"
	CategoriesFile = "categories.json"
)

// FixtureFiles are the files LoadFixtures reads and the Watcher reacts to
var FixtureFiles = []string{ProductsFile, NewsFile, CategoriesFile}

// LoadFixtures reads the three fixture files from dir concurrently. A missing
// or malformed file is logged and leaves that collection empty; there is no
// retry. The only error returned is ctx cancellation.
func LoadFixtures(ctx context.Context, dir string) (Fixtures, error) {
	var f Fixtures
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		f.Products = loadFile[product.Product](ctx, filepath.Join(dir, ProductsFile))
		return ctx.Err()
	})
	g.Go(func() error {
		f.News = loadFile[News](ctx, filepath.Join(dir, NewsFile))
		return ctx.Err()
	})
	g.Go(func() error {
		f.Categories = withSlugs(loadFile[Category](ctx, filepath.Join(dir, CategoriesFile)))
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return Fixtures{}, err
	}
	return f, nil
}

func loadFile[T any](ctx context.Context, path string) []T {
	log := logger.Component("catalog")

	if ctx.Err() != nil {
		return []T{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to read fixture")
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to parse fixture")
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	log.Debug().Str("path", path).Int("count", len(items)).Msg("fixture loaded")
	return items
}
