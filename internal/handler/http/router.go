package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/ReviewsGo/internal/config"
	"github.com/utafrali/ReviewsGo/pkg/health"
	"github.com/utafrali/ReviewsGo/pkg/middleware"
)

// NewRouter assembles the HTTP surface: review endpoints, health probes, and
// the Prometheus scrape endpoint.
func NewRouter(
	reviews *ReviewHandler,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsOrigins []string,
	environment string,
) http.Handler {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = corsOrigins
	corsCfg.Environment = environment

	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(config.ServiceName))

	r.Get("/health", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Get("/", reviews.GetReviews)
		r.With(ContentTypeJSON).Post("/import", reviews.ImportReviews)
		r.With(ContentTypeJSON).Post("/sync", reviews.SyncReviews)
	})

	return r
}
