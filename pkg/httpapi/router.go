// Package httpapi exposes skinlog over a small JSON HTTP API.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouterDeps bundles what NewRouter wires together.
type RouterDeps struct {
	Handler        *Handler
	Logger         *slog.Logger
	RateLimiter    *RateLimiter
	MetricsHandler http.Handler
}

// NewRouter returns the API with its middleware stack:
//
//	Recovery -> Logger -> RateLimiter
//
// /healthz and /metrics stay outside the rate limit.
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := deps.Handler

	r := chi.NewRouter()
	r.Use(Recovery(logger))
	r.Use(Logger(logger, h.recorder()))

	r.Get("/healthz", h.healthz)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		r.Post("/analyze", h.analyze)
		r.Get("/recommendations", h.recommendations)

		r.Route("/journals/{name}", func(r chi.Router) {
			r.Get("/entries", h.listEntries)
			r.Post("/entries", h.createEntry)
			r.Get("/trend", h.trend)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Post("/", h.createProduct)
			r.Post("/reanalyze", h.reanalyzeProducts)
			r.Get("/search", h.searchProducts)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getProduct)
				r.Delete("/", h.deleteProduct)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
