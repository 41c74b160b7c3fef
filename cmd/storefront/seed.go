package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/litebay/internal/catalog"
	"github.com/example/litebay/internal/domain/product"
)

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	fixtures, err := catalog.LoadFixtures(ctx, cfg.Fixtures.Dir)
	if err != nil {
		return err
	}

	if err := product.NewRepository(a.store, a.bus).ReplaceAll(ctx, fixtures.Products); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products from %s\n", len(fixtures.Products), cfg.Fixtures.Dir)
	return nil
}
