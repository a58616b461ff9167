package ports

import "location-tracker-service/internal/domain"

// Listener observes a location tracker.
// Embed NopListener to implement only the notifications you need.
type Listener interface {
	LocationUpdated(c domain.Coordinates)
	LocationUpdateFailed()
	AuthorizationChanged(status domain.AuthorizationStatus)
	AreaNameResolved(name string)
}

// NopListener ignores every notification.
type NopListener struct{}

func (NopListener) LocationUpdated(domain.Coordinates)              {}
func (NopListener) LocationUpdateFailed()                           {}
func (NopListener) AuthorizationChanged(domain.AuthorizationStatus) {}
func (NopListener) AreaNameResolved(string)                         {}

// ListenerFuncs adapts optional callbacks to a Listener. Nil fields are no-ops.
type ListenerFuncs struct {
	OnLocationUpdated      func(c domain.Coordinates)
	OnLocationUpdateFailed func()
	OnAuthorizationChanged func(status domain.AuthorizationStatus)
	OnAreaNameResolved     func(name string)
}

func (f ListenerFuncs) LocationUpdated(c domain.Coordinates) {
	if f.OnLocationUpdated != nil {
		f.OnLocationUpdated(c)
	}
}

func (f ListenerFuncs) LocationUpdateFailed() {
	if f.OnLocationUpdateFailed != nil {
		f.OnLocationUpdateFailed()
	}
}

func (f ListenerFuncs) AuthorizationChanged(status domain.AuthorizationStatus) {
	if f.OnAuthorizationChanged != nil {
		f.OnAuthorizationChanged(status)
	}
}

func (f ListenerFuncs) AreaNameResolved(name string) {
	if f.OnAreaNameResolved != nil {
		f.OnAreaNameResolved(name)
	}
}
