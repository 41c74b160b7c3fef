package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/litebay/internal/api"
	"github.com/example/litebay/internal/auth"
	"github.com/example/litebay/internal/catalog"
	"github.com/example/litebay/internal/checkout"
	"github.com/example/litebay/internal/domain/cart"
	"github.com/example/litebay/internal/domain/contact"
	"github.com/example/litebay/internal/domain/order"
	"github.com/example/litebay/internal/domain/product"
	"github.com/example/litebay/internal/domain/user"
	"github.com/example/litebay/internal/domain/visit"
	"github.com/example/litebay/internal/domain/wishlist"
	"github.com/example/litebay/internal/logger"
)

var errMissingJWTSecret = errors.New("JWT_SECRET is required to serve the API")

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return errMissingJWTSecret
	}
	log := logger.Component("storefront")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	fixtures, err := catalog.LoadFixtures(ctx, cfg.Fixtures.Dir)
	if err != nil {
		return err
	}
	shop := catalog.NewCatalog(fixtures)
	log.Info().
		Int("products", len(fixtures.Products)).
		Int("news", len(fixtures.News)).
		Int("categories", len(fixtures.Categories)).
		Msg("catalog loaded")

	if cfg.Fixtures.Watch {
		watcher, err := catalog.NewWatcher(cfg.Fixtures.Dir, shop)
		if err != nil {
			return err
		}
		watcher.OnReload(func(f catalog.Fixtures) {
			log.Info().Int("products", len(f.Products)).Msg("catalog reloaded")
		})
		if err := watcher.Start(ctx); err != nil {
			watcher.Stop()
			return err
		}
		defer watcher.Stop()
	}

	metrics := api.NewMetrics()
	defer metrics.Observe(a.bus)()

	cartStore := cart.NewStore(ctx, a.store, a.bus)
	orders := order.NewRepository(a.store, a.bus)
	contacts := contact.NewRepository(a.store, a.bus)
	sessions := user.NewSessionStore(user.NewRepository(a.store), a.store, a.bus)
	sessions.Init(ctx)
	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)

	handlers := api.NewHandlers(api.Services{
		Catalog:  shop,
		Products: product.NewRepository(a.store, a.bus),
		Wishlist: wishlist.NewRepository(a.store, a.bus),
		Orders:   orders,
		Visits:   visit.NewCounter(a.store, a.bus),
		Cart:     cartStore,
		Checkout: checkout.NewService(cartStore, orders, contacts),
		PageSize: cfg.Catalog.PageSize,
	})

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(api.RouterConfig{
			Handlers:     handlers,
			AuthHandlers: api.NewAuthHandlers(sessions, jwtService),
			JWT:          jwtService,
			Session:      sessions,
			Metrics:      metrics,
			CORSOrigins:  cfg.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("server started")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
