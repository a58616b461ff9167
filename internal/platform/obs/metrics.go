package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "loctrack"

// Metrics groups the service's Prometheus collectors.
type Metrics struct {
	FixesReceived        prometheus.Counter
	UpdateFailures       prometheus.Counter
	AuthorizationChanges *prometheus.CounterVec
	AreaNamesResolved    prometheus.Counter
	GeocodeRequests      *prometheus.CounterVec
	GeocodeDuration      prometheus.Histogram
	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FixesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fixes_received_total",
			Help:      "Total number of position fixes accepted by the tracker",
		}),
		UpdateFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_update_failures_total",
			Help:      "Total number of provider updates that carried no usable fix",
		}),
		AuthorizationChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authorization_changes_total",
			Help:      "Total number of authorization status changes",
		}, []string{"status"}),
		AreaNamesResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "area_names_resolved_total",
			Help:      "Total number of area names delivered to listeners",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Total number of reverse geocoding requests",
		}, []string{"outcome"}),
		GeocodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_duration_seconds",
			Help:      "Latency of reverse geocoding requests",
			Buckets:   prometheus.DefBuckets,
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		}, []string{"method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests served",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.FixesReceived,
			m.UpdateFailures,
			m.AuthorizationChanges,
			m.AreaNamesResolved,
			m.GeocodeRequests,
			m.GeocodeDuration,
			m.HTTPRequests,
			m.HTTPDuration,
		)
	}

	return m
}
