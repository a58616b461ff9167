package handlers

import (
	"location-tracker-service/internal/api/dto"
	"net/http"
)

// ResolveArea starts a background lookup. The result reaches the tracker's
// listener (and so websocket watchers), never this response.
func (h *LocationHandler) ResolveArea(w http.ResponseWriter, r *http.Request) {
	var req dto.AreaRequest
	if !h.Validator.bind(w, r, &req) {
		return
	}

	if _, ok := h.Tracker.GeocodeAPIKey(); !ok {
		writeError(w, r, http.StatusConflict, "geocode api key is not configured")
		return
	}

	h.Tracker.ResolveAreaName(*req.Coordinates, nil)
	writeJSON(w, r, http.StatusAccepted, dto.StatusResponse{Status: "accepted"})
}

func (h *LocationHandler) SetGeocodeKey(w http.ResponseWriter, r *http.Request) {
	var req dto.GeocodeKeyRequest
	if !h.Validator.bind(w, r, &req) {
		return
	}

	h.Tracker.SetGeocodeAPIKey(req.Key)
	_, ok := h.Tracker.GeocodeAPIKey()
	writeJSON(w, r, http.StatusOK, dto.GeocodeKeyResponse{Configured: ok})
}
