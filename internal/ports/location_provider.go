package ports

import "location-tracker-service/internal/domain"

// Port: the platform component that produces position fixes.
type LocationProvider interface {
	// Ask for permission to track in the background as well as the foreground.
	RequestAlwaysAuthorization()
	// Ask for permission to track while the consumer is in use.
	RequestWhenInUseAuthorization()
	// Begin streaming fixes to the delegate.
	StartUpdatingLocation() error
	// Register the receiver of fixes and authorization changes.
	SetDelegate(d ProviderDelegate)
}

// Callbacks a LocationProvider invokes. They may arrive on any goroutine.
type ProviderDelegate interface {
	OnAuthorizationChanged(status domain.AuthorizationStatus)
	// ok is false when the provider has no usable fix to report.
	OnLocationUpdate(fix domain.Fix, ok bool)
	OnProviderError(err error)
}
