package listener

import (
	"location-tracker-service/internal/domain"
	"log/slog"
)

type Logging struct {
	logger *slog.Logger
}

func NewLogging(logger *slog.Logger) *Logging {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logging{logger: logger.With("component", "listener")}
}

func (l *Logging) LocationUpdated(c domain.Coordinates) {
	l.logger.Info("location updated", "coordinates", c.String())
}

func (l *Logging) LocationUpdateFailed() {
	l.logger.Info("location update failed")
}

func (l *Logging) AuthorizationChanged(status domain.AuthorizationStatus) {
	l.logger.Info("authorization changed", "status", status.String())
}

func (l *Logging) AreaNameResolved(name string) {
	l.logger.Info("area name resolved", "area", name)
}
