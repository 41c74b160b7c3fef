package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/example/litebay/internal/api/middleware"
	"github.com/example/litebay/internal/auth"
	"github.com/example/litebay/internal/logger"
)

type RouterConfig struct {
	Handlers     *Handlers
	AuthHandlers *AuthHandlers
	JWT          *auth.JWTService
	Session      middleware.Session
	Metrics      *Metrics
	CORSOrigins  []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	h := cfg.Handlers
	a := cfg.AuthHandlers
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	router := mux.NewRouter()
	router.Use(metrics.Middleware)

	router.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	// Catalog
	api.HandleFunc("/home", h.GetHome).Methods(http.MethodGet)
	api.HandleFunc("/products", h.GetProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", h.GetProduct).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.GetCategories).Methods(http.MethodGet)
	api.HandleFunc("/news", h.GetNews).Methods(http.MethodGet)
	api.HandleFunc("/news/{id}", h.GetNewsArticle).Methods(http.MethodGet)

	// Cart
	api.HandleFunc("/cart", h.GetCart).Methods(http.MethodGet)
	api.HandleFunc("/cart", h.ClearCart).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items", h.AddToCart).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{id}", h.UpdateCartItem).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{id}", h.RemoveFromCart).Methods(http.MethodDelete)

	// Wishlist
	api.HandleFunc("/wishlist", h.GetWishlist).Methods(http.MethodGet)
	api.HandleFunc("/wishlist/{id}", h.AddToWishlist).Methods(http.MethodPut)
	api.HandleFunc("/wishlist/{id}", h.RemoveFromWishlist).Methods(http.MethodDelete)

	// Checkout and orders
	api.HandleFunc("/checkout", h.PlaceOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders", h.GetOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", h.GetOrder).Methods(http.MethodGet)
	api.HandleFunc("/contacts", h.SubmitContact).Methods(http.MethodPost)

	// Auth
	requireAuth := middleware.RequireSession(cfg.JWT, cfg.Session)
	api.HandleFunc("/auth/register", a.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", a.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", a.Logout).Methods(http.MethodPost)
	api.Handle("/auth/me", requireAuth(http.HandlerFunc(a.Me))).Methods(http.MethodGet)

	// Admin: the repository copy of the catalog
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(requireAuth)
	admin.HandleFunc("/products", h.ListStoredProducts).Methods(http.MethodGet)
	admin.HandleFunc("/products", h.CreateProduct).Methods(http.MethodPost)
	admin.HandleFunc("/products/{id}", h.UpdateProduct).Methods(http.MethodPatch)
	admin.HandleFunc("/products/{id}", h.DeleteProduct).Methods(http.MethodDelete)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(withLogging(router))
}

func healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func withLogging(next http.Handler) http.Handler {
	log := logger.Component("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
