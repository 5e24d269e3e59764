package dto

import (
	"bytes"
	"delivery-planning-session/internal/adapters/canvas"
	"delivery-planning-session/internal/adapters/chart"
	"delivery-planning-session/internal/services"
	"encoding/json"
	"fmt"
)

// FormValue accepts a JSON string or number and keeps its text, so form
// fields parse the same way whichever the client sends.
type FormValue string

func (v *FormValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*v = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = FormValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*v = FormValue(n.String())
	return nil
}

type CreateSessionResponse struct {
	ID string `json:"id"`
}

type LocationRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type AddItemRequest struct {
	Name   string    `json:"name"`
	Weight FormValue `json:"weight"`
	Value  FormValue `json:"value"`
}

type ItemResponse struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Value  float64 `json:"value"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

type OptimizeRequest struct {
	Capacity  FormValue `json:"capacity"`
	Algorithm string    `json:"algorithm"`
	Compare   bool      `json:"compare"`
}

type OptimizeResponse struct {
	Status   string `json:"status"`
	InFlight bool   `json:"in_flight"`
}

type SessionViewResponse struct {
	ID          string                   `json:"id"`
	Items       []ItemResponse           `json:"items"`
	TotalWeight float64                  `json:"total_weight"`
	Pending     *LatLng                  `json:"pending,omitempty"`
	Status      string                   `json:"status"`
	LastOutcome string                   `json:"last_outcome"`
	LastError   string                   `json:"last_error,omitempty"`
	Summary     *services.Summary        `json:"summary,omitempty"`
	Comparison  []services.ComparisonRow `json:"comparison,omitempty"`
	Charts      []chart.Instance         `json:"charts"`
	Map         canvas.Snapshot          `json:"map"`
}

type RunResponse struct {
	SessionID       string  `json:"session_id"`
	StartedAt       string  `json:"started_at"`
	DurationMs      int64   `json:"duration_ms"`
	Algorithm       string  `json:"algorithm"`
	CompareAll      bool    `json:"compare_all"`
	ItemCount       int     `json:"item_count"`
	Capacity        float64 `json:"capacity"`
	Outcome         string  `json:"outcome"`
	TotalDistanceKm float64 `json:"total_distance_km"`
	TotalValue      float64 `json:"total_value"`
	Error           string  `json:"error,omitempty"`
}

type ListRunsResponse struct {
	Runs []RunResponse `json:"runs"`
}
