package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/litebay/internal/domain/cart"
	"github.com/example/litebay/internal/domain/contact"
	"github.com/example/litebay/internal/domain/order"
	"github.com/example/litebay/internal/domain/product"
	"github.com/example/litebay/internal/domain/user"
	"github.com/example/litebay/internal/domain/visit"
	"github.com/example/litebay/internal/domain/wishlist"
	"github.com/example/litebay/internal/email"
)

func runStats(cmd *cobra.Command, args []string) error {
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

	orders := order.NewRepository(a.store, a.bus).GetAll(ctx)
	revenue := 0
	for _, o := range orders {
		revenue += o.Total
	}
	cartStore := cart.NewStore(ctx, a.store, a.bus)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "visits\t%d\n", visit.NewCounter(a.store, a.bus).Get(ctx))
	fmt.Fprintf(w, "orders\t%d\n", len(orders))
	fmt.Fprintf(w, "revenue\t%s\n", email.FormatVND(revenue))
	fmt.Fprintf(w, "contacts\t%d\n", len(contact.NewRepository(a.store, a.bus).GetAll(ctx)))
	fmt.Fprintf(w, "users\t%d\n", len(user.NewRepository(a.store).GetAll(ctx)))
	fmt.Fprintf(w, "products\t%d\n", len(product.NewRepository(a.store, a.bus).GetAll(ctx)))
	fmt.Fprintf(w, "wishlist\t%d\n", len(wishlist.NewRepository(a.store, a.bus).GetAll(ctx)))
	fmt.Fprintf(w, "cart items\t%d\n", cartStore.TotalItems())
	return w.Flush()
}
