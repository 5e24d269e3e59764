package api

import (
	"delivery-planning-session/internal/api/handlers"
	"delivery-planning-session/internal/ports"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// recorder may be nil, in which case /runs reports 503.
func NewRouter(store *handlers.SessionStore, recorder ports.RunRecorder, defaults handlers.OptimizeDefaults) http.Handler {
	r := mux.NewRouter()

	health := &handlers.HealthHandler{Store: store}
	sessions := &handlers.SessionHandler{Store: store, Defaults: defaults}
	runs := &handlers.RunHandler{Recorder: recorder}

	r.HandleFunc("/health", health.Health).Methods(http.MethodGet)

	r.HandleFunc("/sessions", sessions.Create).Methods(http.MethodPost)
	s := r.PathPrefix("/sessions/{id}").Subrouter()
	s.HandleFunc("", sessions.Get).Methods(http.MethodGet)
	s.HandleFunc("", sessions.Delete).Methods(http.MethodDelete)
	s.HandleFunc("/map.geojson", sessions.MapGeoJSON).Methods(http.MethodGet)
	s.HandleFunc("/selection", sessions.SelectLocation).Methods(http.MethodPost)
	s.HandleFunc("/selection", sessions.CancelSelection).Methods(http.MethodDelete)
	s.HandleFunc("/items", sessions.AddItem).Methods(http.MethodPost)
	s.HandleFunc("/items/{itemID:[0-9]+}", sessions.RemoveItem).Methods(http.MethodDelete)
	s.HandleFunc("/optimize", sessions.Optimize).Methods(http.MethodPost)
	s.HandleFunc("/reset", sessions.Reset).Methods(http.MethodPost)

	r.HandleFunc("/runs", runs.List).Methods(http.MethodGet)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte(`{"error":"method not allowed"}` + "\n"))
	})

	return loggingMiddleware(r)
}
