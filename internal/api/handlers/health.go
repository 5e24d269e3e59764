package handlers

import (
	"net/http"
)

type HealthHandler struct {
	Store *SessionStore
}

// Health provides a minimal liveness check endpoint.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]any{"status": "ok"}
	if h.Store != nil {
		res["sessions"] = h.Store.Len()
	}
	writeJSON(w, r, http.StatusOK, res)
}
