package services

import (
	"context"
	"errors"
	"location-tracker-service/internal/ports"
	"log/slog"
)

// Option is a functional option for NewLocationTracker.
type Option func(t *LocationTracker) error

func WithLogger(logger *slog.Logger) Option {
	return func(t *LocationTracker) error {
		if logger == nil {
			return errors.New("logger is nil")
		}
		t.logger = logger
		return nil
	}
}

// WithListener registers the listener before the provider starts, so the
// first notifications are not lost.
func WithListener(l ports.Listener) Option {
	return func(t *LocationTracker) error {
		if l == nil {
			return errors.New("listener is nil")
		}
		t.listener = l
		return nil
	}
}

func WithGeocodeAPIKey(key string) Option {
	return func(t *LocationTracker) error {
		t.SetGeocodeAPIKey(key)
		return nil
	}
}

// WithBaseContext sets the context geocoding requests run under.
// Canceling it abandons in-flight requests.
func WithBaseContext(ctx context.Context) Option {
	return func(t *LocationTracker) error {
		if ctx == nil {
			return errors.New("base context is nil")
		}
		t.baseCtx = ctx
		return nil
	}
}
