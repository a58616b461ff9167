package dto

import (
	"errors"
	"fmt"
	"location-tracker-service/internal/domain"
	"net/http"
	"time"
)

// FixRequest is either a position fix or {"no_fix": true}.
type FixRequest struct {
	Latitude  *float64   `json:"Latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64   `json:"Longitude" validate:"omitempty,gte=-180,lte=180"`
	Accuracy  float64    `json:"accuracy" validate:"gte=0"`
	Timestamp *time.Time `json:"timestamp"`
	NoFix     bool       `json:"no_fix"`
}

func (f *FixRequest) Bind(r *http.Request) error {
	if f.NoFix {
		return nil
	}
	if f.Latitude == nil || f.Longitude == nil {
		return errors.New("missing Latitude or Longitude (set no_fix when there is no fix)")
	}
	return nil
}

func (f *FixRequest) Fix() domain.Fix {
	fix := domain.Fix{
		Coordinates: domain.NewCoordinates(*f.Latitude, *f.Longitude),
		Accuracy:    f.Accuracy,
	}
	if f.Timestamp != nil {
		fix.Timestamp = *f.Timestamp
	}
	return fix
}

type FixResponse struct {
	Delivered bool `json:"delivered"`
}

type AuthorizationRequest struct {
	Status string `json:"status" validate:"required,oneof=not-determined restricted denied always when-in-use"`
}

func (a *AuthorizationRequest) Bind(r *http.Request) error { return nil }

type StatusResponse struct {
	Status string `json:"status"`
}

type LocationResponse struct {
	Location domain.Coordinates `json:"location"`
	Text     string             `json:"text"`
}

type DistanceResponse struct {
	To          domain.Coordinates `json:"to"`
	Meters      int                `json:"meters"`
	HasLocation bool               `json:"has_location"`
}

type NearestRequest struct {
	Candidates []domain.Coordinates `json:"candidates" validate:"required,min=1"`
}

func (n *NearestRequest) Bind(r *http.Request) error {
	for i, c := range n.Candidates {
		if !c.IsFinite() {
			return fmt.Errorf("candidate %d: coordinates must be finite", i)
		}
	}
	return nil
}

type NearestResponse struct {
	Nearest domain.Coordinates `json:"nearest"`
	Meters  int                `json:"meters"`
}

type AreaRequest struct {
	Coordinates *domain.Coordinates `json:"coordinates" validate:"required"`
}

func (a *AreaRequest) Bind(r *http.Request) error {
	if a.Coordinates != nil && !a.Coordinates.IsFinite() {
		return errors.New("coordinates must be finite")
	}
	return nil
}

type GeocodeKeyRequest struct {
	Key string `json:"key"`
}

func (g *GeocodeKeyRequest) Bind(r *http.Request) error { return nil }

type GeocodeKeyResponse struct {
	Configured bool `json:"configured"`
}

type ErrorResponse struct {
	Error      string   `json:"error"`
	Validation []string `json:"validation,omitempty"`
}
