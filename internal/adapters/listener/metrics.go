package listener

import (
	"location-tracker-service/internal/domain"
	"location-tracker-service/internal/platform/obs"
)

// Metrics counts tracker notifications.
type Metrics struct {
	m *obs.Metrics
}

func NewMetrics(m *obs.Metrics) *Metrics {
	return &Metrics{m: m}
}

func (l *Metrics) LocationUpdated(domain.Coordinates) {
	l.m.FixesReceived.Inc()
}

func (l *Metrics) LocationUpdateFailed() {
	l.m.UpdateFailures.Inc()
}

func (l *Metrics) AuthorizationChanged(status domain.AuthorizationStatus) {
	l.m.AuthorizationChanges.WithLabelValues(status.String()).Inc()
}

func (l *Metrics) AreaNameResolved(string) {
	l.m.AreaNamesResolved.Inc()
}
