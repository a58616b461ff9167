package geocode

import (
	"context"
	"location-tracker-service/internal/domain"
	"location-tracker-service/internal/platform/obs"
	"location-tracker-service/internal/ports"
	"time"
)

// Instrumented records request outcomes and latency of the wrapped resolver.
type Instrumented struct {
	next    ports.AreaResolver
	metrics *obs.Metrics
}

func NewInstrumented(next ports.AreaResolver, m *obs.Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

func (i *Instrumented) ResolveAreaName(ctx context.Context, c domain.Coordinates, apiKey string) (string, error) {
	start := time.Now()
	name, err := i.next.ResolveAreaName(ctx, c, apiKey)
	i.metrics.GeocodeDuration.Observe(time.Since(start).Seconds())

	i.metrics.GeocodeRequests.WithLabelValues(outcome(err)).Inc()
	return name, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
