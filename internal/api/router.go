package api

import (
	"location-tracker-service/internal/api/handlers"
	"location-tracker-service/internal/platform/obs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Tracker handlers.Tracker
	Fixes   handlers.FixSource
	// Optional.
	Watch    http.Handler
	Gatherer prometheus.Gatherer
	Metrics  *obs.Metrics
	Logger   *slog.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loc := &handlers.LocationHandler{
		Tracker:   d.Tracker,
		Fixes:     d.Fixes,
		Validator: handlers.NewValidator(),
		Logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(loggingMiddleware(logger, d.Metrics))
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/fixes", loc.PushFix)
		r.Post("/authorization", loc.SetAuthorization)
		r.Post("/permissions/{level}", loc.RequestPermission)
		r.Post("/tracking/start", loc.StartTracking)
		r.Post("/tracking/resume", loc.ResumeTracking)
		r.Get("/location", loc.CurrentLocation)
		r.Get("/distance", loc.Distance)
		r.Post("/nearest", loc.Nearest)
		r.Post("/area", loc.ResolveArea)
		r.Put("/geocode/key", loc.SetGeocodeKey)

		if d.Watch != nil {
			r.Method(http.MethodGet, "/watch", d.Watch)
		}
	})

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}
