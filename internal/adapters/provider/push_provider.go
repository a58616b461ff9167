package provider

import (
	"errors"
	"location-tracker-service/internal/domain"
	"location-tracker-service/internal/ports"
	"log/slog"
	"sync"
	"time"
)

// DefaultDistanceFilterMeters suppresses fixes within ten meters of the last
// delivered one.
const DefaultDistanceFilterMeters = 10.0

var (
	// ErrNotStreaming is returned by Push and PushNoFix before StartUpdatingLocation.
	ErrNotStreaming = errors.New("location provider is not streaming")
	// ErrNotAuthorized is returned by Push while the authorization status
	// does not allow location updates.
	ErrNotAuthorized = errors.New("location updates are not authorized")
)

type Config struct {
	// Minimum movement in meters before a new fix is delivered.
	// Zero delivers every fix.
	DistanceFilterMeters float64
	// Immediately grant the requested authorization level.
	AutoGrant bool
}

// PushProvider implements ports.LocationProvider for fixes that are pushed
// in by a client (for example over the HTTP API) instead of read from
// positioning hardware.
//
// It is safe for concurrent use. Delegate callbacks run on the pushing
// goroutine, outside the provider's lock.
type PushProvider struct {
	cfg    Config
	logger *slog.Logger

	mu        sync.Mutex
	delegate  ports.ProviderDelegate
	streaming bool
	requested domain.AuthorizationStatus
	status    domain.AuthorizationStatus
	last      *domain.Coordinates
}

func NewPushProvider(cfg Config, logger *slog.Logger) *PushProvider {
	if cfg.DistanceFilterMeters < 0 {
		cfg.DistanceFilterMeters = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PushProvider{
		cfg:    cfg,
		logger: logger,
	}
}

func (p *PushProvider) SetDelegate(d ports.ProviderDelegate) {
	p.mu.Lock()
	p.delegate = d
	p.mu.Unlock()
}

func (p *PushProvider) RequestAlwaysAuthorization() {
	p.request(domain.AuthorizationAlways)
}

func (p *PushProvider) RequestWhenInUseAuthorization() {
	p.request(domain.AuthorizationWhenInUse)
}

func (p *PushProvider) request(level domain.AuthorizationStatus) {
	p.mu.Lock()
	p.requested = level
	autoGrant := p.cfg.AutoGrant
	p.mu.Unlock()

	p.logger.Info("location authorization requested", "level", level)
	if autoGrant {
		p.SetAuthorization(level)
	}
}

// RequestedAuthorization returns the most recently requested level.
func (p *PushProvider) RequestedAuthorization() domain.AuthorizationStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requested
}

func (p *PushProvider) Authorization() domain.AuthorizationStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *PushProvider) StartUpdatingLocation() error {
	p.mu.Lock()
	p.streaming = true
	p.mu.Unlock()
	return nil
}

func (p *PushProvider) Streaming() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.streaming
}

// SetAuthorization records a status change and forwards it to the delegate.
func (p *PushProvider) SetAuthorization(status domain.AuthorizationStatus) {
	p.mu.Lock()
	changed := p.status != status
	p.status = status
	d := p.delegate
	p.mu.Unlock()

	if changed && d != nil {
		d.OnAuthorizationChanged(status)
	}
}

// Push delivers a fix to the delegate. It reports whether the fix was
// delivered; fixes inside the distance filter are dropped. Fixes are only
// accepted under an Always or WhenInUse authorization.
func (p *PushProvider) Push(fix domain.Fix) (bool, error) {
	if fix.Timestamp.IsZero() {
		fix.Timestamp = time.Now()
	}

	p.mu.Lock()
	if !p.streaming {
		p.mu.Unlock()
		return false, ErrNotStreaming
	}
	if !p.status.Authorized() {
		p.mu.Unlock()
		return false, ErrNotAuthorized
	}

	if p.last != nil && p.cfg.DistanceFilterMeters > 0 &&
		domain.DistanceMeters(*p.last, fix.Coordinates) < p.cfg.DistanceFilterMeters {
		p.mu.Unlock()
		return false, nil
	}

	c := fix.Coordinates
	p.last = &c
	d := p.delegate
	p.mu.Unlock()

	if d != nil {
		d.OnLocationUpdate(fix, true)
	}
	return true, nil
}

// PushNoFix tells the delegate that no usable position is available.
func (p *PushProvider) PushNoFix() error {
	p.mu.Lock()
	if !p.streaming {
		p.mu.Unlock()
		return ErrNotStreaming
	}
	d := p.delegate
	p.mu.Unlock()

	if d != nil {
		d.OnLocationUpdate(domain.Fix{}, false)
	}
	return nil
}

// Fail reports a provider-side error to the delegate.
func (p *PushProvider) Fail(err error) {
	p.mu.Lock()
	d := p.delegate
	p.mu.Unlock()

	if d != nil && err != nil {
		d.OnProviderError(err)
	}
}
