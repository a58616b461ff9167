package services

import (
	"context"
	"errors"
	"fmt"
	"location-tracker-service/internal/domain"
	"location-tracker-service/internal/ports"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
)

// LocationTracker keeps the last known position reported by a
// LocationProvider and answers distance and area-name queries against it.
//
// Provider callbacks and queries may run concurrently. The cached position is
// guarded by its own lock, held only while it is copied in or out.
// Once started, the tracker never stops updating.
type LocationTracker struct {
	provider ports.LocationProvider
	resolver ports.AreaResolver
	logger   *slog.Logger
	baseCtx  context.Context

	mu              sync.RWMutex
	currentLocation *domain.Coordinates

	startMu sync.Mutex
	running atomic.Bool

	listenerMu sync.RWMutex
	listener   ports.Listener

	keyMu  sync.RWMutex
	apiKey string

	inflight sync.WaitGroup
}

// NewLocationTracker registers the tracker as the provider's delegate, asks
// for when-in-use authorization and starts location updates.
//
// resolver may be nil, in which case ResolveAreaName never reports a result.
func NewLocationTracker(
	provider ports.LocationProvider,
	resolver ports.AreaResolver,
	opts ...Option,
) (*LocationTracker, error) {
	if provider == nil {
		return nil, errors.New("new location tracker: provider is nil")
	}

	t := &LocationTracker{
		provider: provider,
		resolver: resolver,
		logger:   slog.Default(),
		baseCtx:  context.Background(),
		listener: ports.NopListener{},
	}

	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, fmt.Errorf("new location tracker: %w", err)
		}
	}

	provider.SetDelegate(t)
	provider.RequestWhenInUseAuthorization()
	if err := t.StartUpdatingLocation(); err != nil {
		return nil, fmt.Errorf("new location tracker: %w", err)
	}

	return t, nil
}

// SetListener replaces the registered listener. nil restores the no-op one.
func (t *LocationTracker) SetListener(l ports.Listener) {
	if l == nil {
		l = ports.NopListener{}
	}

	t.listenerMu.Lock()
	t.listener = l
	t.listenerMu.Unlock()
}

func (t *LocationTracker) currentListener() ports.Listener {
	t.listenerMu.RLock()
	defer t.listenerMu.RUnlock()
	return t.listener
}

func (t *LocationTracker) RequestAlwaysPermission() {
	t.provider.RequestAlwaysAuthorization()
}

func (t *LocationTracker) RequestWhenInUsePermission() {
	t.provider.RequestWhenInUseAuthorization()
}

// StartUpdatingLocation asks the provider to stream fixes.
// Calling it while already running is a no-op.
func (t *LocationTracker) StartUpdatingLocation() error {
	t.startMu.Lock()
	defer t.startMu.Unlock()

	if t.running.Load() {
		return nil
	}

	if err := t.provider.StartUpdatingLocation(); err != nil {
		return fmt.Errorf("start updating location: %w", err)
	}

	t.running.Store(true)
	t.logger.Info("started updating location")
	return nil
}

// Resume starts updates if they are not running yet.
func (t *LocationTracker) Resume() error {
	if t.running.Load() {
		return nil
	}
	return t.StartUpdatingLocation()
}

func (t *LocationTracker) Running() bool {
	return t.running.Load()
}

// OnAuthorizationChanged forwards the status to the listener unchanged.
func (t *LocationTracker) OnAuthorizationChanged(status domain.AuthorizationStatus) {
	t.logger.Debug("authorization changed", "status", status)
	t.currentListener().AuthorizationChanged(status)
}

// OnLocationUpdate caches a new fix and notifies the listener.
// When ok is false the cached position is left as is and the listener is
// told that no update happened.
func (t *LocationTracker) OnLocationUpdate(fix domain.Fix, ok bool) {
	if !ok {
		t.logger.Debug("provider reported no usable fix")
		t.currentListener().LocationUpdateFailed()
		return
	}

	c := fix.Coordinates

	t.mu.Lock()
	t.currentLocation = &c
	t.mu.Unlock()

	t.logger.Debug("did get location", "latitude", c.Latitude(), "longitude", c.Longitude())
	t.currentListener().LocationUpdated(c)
}

// OnProviderError logs provider failures. Listeners are not notified.
func (t *LocationTracker) OnProviderError(err error) {
	t.logger.Warn("error when updating location", "error", err)
}

// CurrentLocation returns the last cached fix, or false if none arrived yet.
func (t *LocationTracker) CurrentLocation() (domain.Coordinates, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.currentLocation == nil {
		return domain.Coordinates{}, false
	}
	return *t.currentLocation, true
}

// DistanceMeters returns the distance in whole meters (truncated) from the
// current location to the given point, or 0 when no location is known.
func (t *LocationTracker) DistanceMeters(to domain.Coordinates) int {
	from, ok := t.CurrentLocation()
	return distanceFrom(from, ok, to)
}

func distanceFrom(from domain.Coordinates, ok bool, to domain.Coordinates) int {
	if !ok {
		return 0
	}
	return int(domain.DistanceMeters(from, to))
}

// FindNearest returns the candidate closest to the current location.
//
// Every candidate is measured against the same snapshot of the location.
// Ties go to the earliest candidate. With no known location all distances
// are 0, so the first candidate is returned.
func (t *LocationTracker) FindNearest(candidates []domain.Coordinates) (domain.Coordinates, bool) {
	if len(candidates) == 0 {
		return domain.Coordinates{}, false
	}

	from, ok := t.CurrentLocation()

	best := candidates[0]
	minDistance := distanceFrom(from, ok, best)

	// Strict comparison keeps the first of equally distant candidates.
	for _, c := range candidates[1:] {
		d := distanceFrom(from, ok, c)
		if d < minDistance {
			minDistance = d
			best = c
		}
	}

	return best, true
}

// SetGeocodeAPIKey stores the key used by ResolveAreaName.
// A blank key clears it.
func (t *LocationTracker) SetGeocodeAPIKey(key string) {
	t.keyMu.Lock()
	t.apiKey = strings.TrimSpace(key)
	t.keyMu.Unlock()
}

func (t *LocationTracker) GeocodeAPIKey() (string, bool) {
	t.keyMu.RLock()
	defer t.keyMu.RUnlock()
	return t.apiKey, t.apiKey != ""
}

// ResolveAreaName looks up the area name for c in the background and hands
// it to onResult (or the registered listener when onResult is nil).
//
// Without an API key nothing happens. On any lookup failure the callback is
// never invoked.
func (t *LocationTracker) ResolveAreaName(c domain.Coordinates, onResult ports.Listener) {
	key, ok := t.GeocodeAPIKey()
	if !ok {
		t.logger.Debug("resolve area name skipped: no geocode api key")
		return
	}
	if t.resolver == nil {
		t.logger.Debug("resolve area name skipped: no resolver configured")
		return
	}
	if onResult == nil {
		onResult = t.currentListener()
	}

	t.inflight.Add(1)
	go func() {
		defer t.inflight.Done()

		name, err := t.resolver.ResolveAreaName(t.baseCtx, c, key)
		if err != nil {
			t.logger.Warn("resolve area name failed", "coordinates", c.String(), "error", err)
			return
		}

		onResult.AreaNameResolved(name)
	}()
}

// Wait blocks until background area-name lookups have finished.
func (t *LocationTracker) Wait() {
	t.inflight.Wait()
}
