package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gigvault/escrowd/internal/service"
	"github.com/gigvault/escrowd/pkg/health"
	"github.com/gigvault/escrowd/pkg/middleware"
)

// RouterConfig holds the router's deployment-specific settings.
type RouterConfig struct {
	ServiceName    string
	Environment    string
	AllowedOrigins []string
	PprofCIDRs     []string
}

// NewRouter creates a chi router with all marketplace routes registered.
func NewRouter(
	marketplaceService *service.MarketplaceService,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Environment:    cfg.Environment,
	}))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.HeaderIdentity)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Profiling endpoints, gated to operator networks.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	marketplaceHandler := NewMarketplaceHandler(marketplaceService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/services", func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/", marketplaceHandler.OfferService)
			r.With(middleware.CacheControl(30)).Get("/", marketplaceHandler.ListServices)
			r.With(middleware.CacheControl(30)).Get("/count", marketplaceHandler.CountServices)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", marketplaceHandler.GetService)
				r.Get("/escrow", marketplaceHandler.GetEscrowBalance)
				r.Post("/hire", marketplaceHandler.HireService)
				r.Post("/release", marketplaceHandler.ReleasePayment)
				r.Post("/refund", marketplaceHandler.RefundClient)
				r.Post("/rating", marketplaceHandler.RateService)
			})
		})

		r.With(middleware.CacheControl(60)).
			Get("/freelancers/{id}/rating", marketplaceHandler.GetRatingSummary)
	})

	return r
}
