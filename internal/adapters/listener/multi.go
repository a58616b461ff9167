package listener

import (
	"location-tracker-service/internal/domain"
	"location-tracker-service/internal/ports"
)

// Multi fans every notification out to its listeners in order.
type Multi []ports.Listener

// NewMulti drops nil entries.
func NewMulti(ls ...ports.Listener) Multi {
	m := make(Multi, 0, len(ls))
	for _, l := range ls {
		if l != nil {
			m = append(m, l)
		}
	}
	return m
}

func (m Multi) LocationUpdated(c domain.Coordinates) {
	for _, l := range m {
		l.LocationUpdated(c)
	}
}

func (m Multi) LocationUpdateFailed() {
	for _, l := range m {
		l.LocationUpdateFailed()
	}
}

func (m Multi) AuthorizationChanged(status domain.AuthorizationStatus) {
	for _, l := range m {
		l.AuthorizationChanged(status)
	}
}

func (m Multi) AreaNameResolved(name string) {
	for _, l := range m {
		l.AreaNameResolved(name)
	}
}
