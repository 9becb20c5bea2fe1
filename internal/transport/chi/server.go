// Package chi is the HTTP transport: routes, handlers, authentication and
// the per-request middleware chain.
package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/protoguide/protoguide/internal/metrics"
)

// Services bundles the use cases the transport serves.
type Services struct {
	Search     SearchService
	Agencies   AgencyService
	Identities IdentityService
	History    HistoryService
	Quota      QuotaReporter
	Health     HealthService
	Tokens     TokenVerifier
}

// Server holds the HTTP handlers.
type Server struct {
	search        SearchService
	agencies      AgencyService
	identities    IdentityService
	history       HistoryService
	quota         QuotaReporter
	health        HealthService
	tokens        TokenVerifier
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		search:        svc.Search,
		agencies:      svc.Agencies,
		identities:    svc.Identities,
		history:       svc.History,
		quota:         svc.Quota,
		health:        svc.Health,
		tokens:        svc.Tokens,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Handler builds the router with the full middleware chain.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.Health)
	r.Get("/ready", s.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/search/stats", s.SearchStats)
		r.Get("/search/agency/{id}", s.SearchByAgency)

		r.Get("/agencies", s.ListAgencies)
		r.Get("/agencies/regions", s.ListRegions)
		r.Get("/agencies/by-region", s.ListAgenciesByRegion)
		r.Get("/agencies/{id}", s.GetAgency)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/search", s.Search)
			r.Get("/users/me", s.Me)
			r.Get("/users/history", s.History)
			r.Put("/users/agency", s.SelectAgency)
		})
	})
	return r
}
