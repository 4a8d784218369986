package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/dossier-issuance/internal/domain"
	"github.com/heartmarshall/dossier-issuance/internal/transport/middleware"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (domain.Actor, error)
}

// RouterConfig collects the handlers and cross-cutting pieces of the HTTP API.
type RouterConfig struct {
	Documents          *DocumentHandler
	Health             *HealthHandler
	Validator          tokenValidator
	RateLimiter        *middleware.RateLimiter
	IssueRatePerMinute int
	// Metrics is mounted at MetricsPath when non-nil.
	Metrics     http.Handler
	MetricsPath string
	Logger      *slog.Logger
}

// NewRouter builds the HTTP handler tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Get("/live", cfg.Health.Live)
	r.Get("/ready", cfg.Health.Ready)
	r.Get("/health", cfg.Health.Health)
	if cfg.Metrics != nil {
		r.Handle(cfg.MetricsPath, cfg.Metrics)
	}

	r.Route("/api/v1/documents", func(r chi.Router) {
		r.Use(
			middleware.Recovery(cfg.Logger),
			middleware.RequestID,
			middleware.Auth(cfg.Validator),
			middleware.Logger(cfg.Logger),
		)

		issue := http.Handler(http.HandlerFunc(cfg.Documents.Issue))
		if cfg.RateLimiter != nil {
			issue = cfg.RateLimiter.Limit(cfg.IssueRatePerMinute)(issue)
		}
		r.Method(http.MethodPost, "/", issue)
		r.Get("/history", cfg.Documents.History)
		r.Get("/{id}/content", cfg.Documents.Content)
		r.Get("/{id}/activity", cfg.Documents.Activity)
	})

	return r
}
