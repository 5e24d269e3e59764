package handlers

import (
	"context"
	"delivery-planning-session/internal/api/dto"
	"delivery-planning-session/internal/domain"
	"delivery-planning-session/internal/services"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// OptimizeDefaults fill optimize fields the client leaves empty.
type OptimizeDefaults struct {
	Capacity  float64
	Algorithm string
}

type SessionHandler struct {
	Store    *SessionStore
	Defaults OptimizeDefaults
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, _, err := h.Store.Create()
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.CreateSessionResponse{ID: id})
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.Store.Delete(mux.Vars(r)["id"]) {
		writeError(w, r, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entry(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, viewResponse(e))
}

// MapGeoJSON exports the session's map layers.
func (h *SessionHandler) MapGeoJSON(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entry(w, r)
	if !ok {
		return
	}

	b, err := e.Canvas.MarshalGeoJSON()
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *SessionHandler) SelectLocation(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entry(w, r)
	if !ok {
		return
	}

	var req dto.LocationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Lat == nil || req.Lng == nil {
		writeError(w, r, http.StatusBadRequest, "lat and lng are required")
		return
	}

	if err := e.Session.SelectLocation(domain.LatLng{Lat: *req.Lat, Lng: *req.Lng}); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewResponse(e))
}

func (h *SessionHandler) CancelSelection(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entry(w, r)
	if !ok {
		return
	}

	if err := e.Session.CancelSelection(); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewResponse(e))
}

func (h *SessionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entry(w, r)
	if !ok {
		return
	}

	var req dto.AddItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	draft, err := domain.ParseItemDraft(req.Name, string(req.Weight), string(req.Value))
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	item, err := e.Session.AddItem(draft)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, itemResponse(item))
}

func (h *SessionHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entry(w, r)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(mux.Vars(r)["itemID"])
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "item id must be an integer")
		return
	}

	removed, err := e.Session.RemoveItem(itemID)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if !removed {
		writeError(w, r, http.StatusNotFound, "item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Optimize submits the session's items to the planner. It answers 202 for
// a new request and 200 with in_flight=true when one is already running.
// With ?wait=true it blocks until the outcome is applied and returns the view.
func (h *SessionHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entry(w, r)
	if !ok {
		return
	}

	var req dto.OptimizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	opts := services.OptimizeOptions{
		Capacity:   h.Defaults.Capacity,
		Algorithm:  h.Defaults.Algorithm,
		CompareAll: req.Compare,
	}
	if text := strings.TrimSpace(string(req.Capacity)); text != "" {
		c, err := services.ParseCapacity(text)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		opts.Capacity = c
	}
	if a := strings.TrimSpace(req.Algorithm); a != "" {
		opts.Algorithm = a
	}

	// The planner call outlives this request.
	done, started, err := e.Session.Submit(context.WithoutCancel(r.Context()), opts)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		select {
		case <-done:
		case <-r.Context().Done():
			return
		}
		writeJSON(w, r, http.StatusOK, viewResponse(e))
		return
	}

	if !started {
		writeJSON(w, r, http.StatusOK, dto.OptimizeResponse{Status: string(services.StatusRequesting), InFlight: true})
		return
	}
	writeJSON(w, r, http.StatusAccepted, dto.OptimizeResponse{Status: string(services.StatusRequesting)})
}

func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entry(w, r)
	if !ok {
		return
	}

	if err := e.Session.Reset(); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewResponse(e))
}

func (h *SessionHandler) entry(w http.ResponseWriter, r *http.Request) (*SessionEntry, bool) {
	e, ok := h.Store.Get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, r, http.StatusNotFound, "session not found")
		return nil, false
	}
	return e, true
}

func itemResponse(it domain.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:     it.ID,
		Name:   it.Name,
		Weight: it.Weight,
		Value:  it.Value,
		Lat:    it.Location.Lat,
		Lng:    it.Location.Lng,
	}
}

func viewResponse(e *SessionEntry) dto.SessionViewResponse {
	v := e.Session.View()

	items := make([]dto.ItemResponse, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, itemResponse(it))
	}

	res := dto.SessionViewResponse{
		ID:          v.ID,
		Items:       items,
		TotalWeight: v.TotalWeight,
		Status:      string(v.Status),
		LastOutcome: string(v.LastOutcome),
		LastError:   v.LastError,
		Summary:     v.Summary,
		Comparison:  v.Comparison,
		Charts:      e.Charts.Live(),
		Map:         e.Canvas.Snapshot(),
	}
	if v.Pending != nil {
		res.Pending = &dto.LatLng{Lat: v.Pending.Lat, Lng: v.Pending.Lng}
	}
	return res
}
