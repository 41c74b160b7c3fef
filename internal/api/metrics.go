package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/litebay/internal/domain/cart"
	"github.com/example/litebay/internal/events"
)

// Metrics holds the storefront collectors on a private registry
type Metrics struct {
	registry       *prometheus.Registry
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	eventCounter   *prometheus.CounterVec
	cartItems      prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_http_requests_total",
				Help: "Total number of requests to the storefront API",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_http_request_duration_seconds",
				Help:    "Duration of storefront API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		eventCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_events_total",
				Help: "Mutation events published by the storefront",
			},
			[]string{"type"},
		),
		cartItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "storefront_cart_items",
				Help: "Units currently in the cart",
			},
		),
	}

	m.registry.MustRegister(m.requestCounter, m.requestLatency, m.eventCounter, m.cartItems)
	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests and for registering process collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe counts every event on the bus and tracks the cart size
func (m *Metrics) Observe(bus *events.Bus) func() {
	return bus.Subscribe(events.All, func(ctx context.Context, e events.Event) {
		m.eventCounter.WithLabelValues(e.Type).Inc()
		if e.Type == events.CartChanged {
			var changed cart.ChangedEvent
			if err := e.Decode(&changed); err == nil {
				m.cartItems.Set(float64(changed.TotalItems))
			}
		}
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency labelled by route template
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		endpoint := routeTemplate(r)
		duration := time.Since(start).Seconds()
		m.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		m.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	})
}

// routeTemplate keeps label cardinality bounded by ids in the path
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
