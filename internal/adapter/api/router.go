package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/V4T54L/journalview/internal/adapter/api/handler"
	"github.com/V4T54L/journalview/internal/adapter/api/middleware"
	"github.com/V4T54L/journalview/internal/adapter/metrics"
	"github.com/V4T54L/journalview/internal/domain"
)

// RouterOptions configures the cross-cutting middleware of the API.
type RouterOptions struct {
	// APIKeys, if set, requires a valid key on every /api route.
	APIKeys domain.APIKeyRepository
	// Limiter, if set, bounds the request rate of /api routes.
	Limiter *rate.Limiter
	Metrics *metrics.QueryMetrics
}

// NewRouter creates and configures the HTTP router for the journal API.
func NewRouter(h *handler.JournalHandler, opts RouterOptions, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(middleware.RateLimit(opts.Limiter, logger, opts.Metrics))
		}
		if opts.APIKeys != nil {
			r.Use(middleware.Auth(opts.APIKeys, logger))
		}

		r.Get("/logs", h.ListLogs)
		r.Get("/entries/{timestamp}", h.GetEntry)
		r.Get("/summary", h.Summary)
		r.Get("/services", h.ListServices)
		r.Get("/boots", h.ListBoots)
	})

	return r
}
