package handlers

import (
	"errors"
	"location-tracker-service/internal/adapters/provider"
	"location-tracker-service/internal/api/dto"
	"location-tracker-service/internal/domain"
	"location-tracker-service/internal/ports"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Tracker is the part of the location tracker the HTTP API drives.
type Tracker interface {
	RequestAlwaysPermission()
	RequestWhenInUsePermission()
	StartUpdatingLocation() error
	Resume() error
	Running() bool
	CurrentLocation() (domain.Coordinates, bool)
	DistanceMeters(to domain.Coordinates) int
	FindNearest(candidates []domain.Coordinates) (domain.Coordinates, bool)
	SetGeocodeAPIKey(key string)
	GeocodeAPIKey() (string, bool)
	ResolveAreaName(c domain.Coordinates, onResult ports.Listener)
}

// FixSource accepts fixes and authorization changes reported by a device.
type FixSource interface {
	Push(fix domain.Fix) (bool, error)
	PushNoFix() error
	SetAuthorization(status domain.AuthorizationStatus)
}

type LocationHandler struct {
	Tracker   Tracker
	Fixes     FixSource
	Validator *Validator
	Logger    *slog.Logger
}

func (h *LocationHandler) PushFix(w http.ResponseWriter, r *http.Request) {
	var req dto.FixRequest
	if !h.Validator.bind(w, r, &req) {
		return
	}

	if req.NoFix {
		if err := h.Fixes.PushNoFix(); err != nil {
			h.pushFailed(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusAccepted, dto.FixResponse{Delivered: true})
		return
	}

	delivered, err := h.Fixes.Push(req.Fix())
	if err != nil {
		h.pushFailed(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, dto.FixResponse{Delivered: delivered})
}

func (h *LocationHandler) pushFailed(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, provider.ErrNotStreaming):
		writeError(w, r, http.StatusConflict, "location updates are not running")
		return
	case errors.Is(err, provider.ErrNotAuthorized):
		writeError(w, r, http.StatusForbidden, "location tracking is not authorized")
		return
	}
	h.Logger.ErrorContext(r.Context(), "push fix failed", "error", err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func (h *LocationHandler) SetAuthorization(w http.ResponseWriter, r *http.Request) {
	var req dto.AuthorizationRequest
	if !h.Validator.bind(w, r, &req) {
		return
	}

	status, err := domain.ParseAuthorizationStatus(req.Status)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.Fixes.SetAuthorization(status)
	writeJSON(w, r, http.StatusOK, dto.StatusResponse{Status: status.String()})
}

func (h *LocationHandler) RequestPermission(w http.ResponseWriter, r *http.Request) {
	level := chi.URLParam(r, "level")

	switch level {
	case domain.AuthorizationAlways.String():
		h.Tracker.RequestAlwaysPermission()
	case domain.AuthorizationWhenInUse.String():
		h.Tracker.RequestWhenInUsePermission()
	default:
		writeError(w, r, http.StatusBadRequest, "unknown permission level "+level)
		return
	}

	writeJSON(w, r, http.StatusAccepted, dto.StatusResponse{Status: "requested"})
}

func (h *LocationHandler) StartTracking(w http.ResponseWriter, r *http.Request) {
	if err := h.Tracker.StartUpdatingLocation(); err != nil {
		h.Logger.ErrorContext(r.Context(), "start tracking failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.StatusResponse{Status: "running"})
}

// ResumeTracking is called when the client comes back to the foreground.
func (h *LocationHandler) ResumeTracking(w http.ResponseWriter, r *http.Request) {
	if err := h.Tracker.Resume(); err != nil {
		h.Logger.ErrorContext(r.Context(), "resume tracking failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.StatusResponse{Status: "running"})
}

func (h *LocationHandler) CurrentLocation(w http.ResponseWriter, r *http.Request) {
	c, ok := h.Tracker.CurrentLocation()
	if !ok {
		writeError(w, r, http.StatusNotFound, "no location known yet")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.LocationResponse{Location: c, Text: c.String()})
}

func (h *LocationHandler) Distance(w http.ResponseWriter, r *http.Request) {
	to, err := domain.ParseCoordinates(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "query parameter to: "+err.Error())
		return
	}
	if !to.IsFinite() {
		writeError(w, r, http.StatusBadRequest, "query parameter to: coordinates must be finite")
		return
	}

	_, ok := h.Tracker.CurrentLocation()
	writeJSON(w, r, http.StatusOK, dto.DistanceResponse{
		To:          to,
		Meters:      h.Tracker.DistanceMeters(to),
		HasLocation: ok,
	})
}

func (h *LocationHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	var req dto.NearestRequest
	if !h.Validator.bind(w, r, &req) {
		return
	}

	nearest, ok := h.Tracker.FindNearest(req.Candidates)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "no candidates")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NearestResponse{
		Nearest: nearest,
		Meters:  h.Tracker.DistanceMeters(nearest),
	})
}
