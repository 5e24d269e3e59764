package planner

import (
	"bytes"
	"delivery-planning-session/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
)

var errMissing = errors.New("missing")

// Dialect describes one planner deployment's JSON field names and units.
// Two deployments are known: the medicine planner (km, "prims"/"kruskals")
// and the package planner (metres, "prim"/"kruskal").
type Dialect struct {
	Name           string
	ItemsField     string
	CapacityField  string
	AlgorithmNames map[domain.Algorithm]string
	// KmPerUnit converts the planner's distance unit to kilometres.
	KmPerUnit float64
}

var (
	MedicinesDialect = Dialect{
		Name:          "medicines",
		ItemsField:    "medicines",
		CapacityField: "droneCapacity",
		AlgorithmNames: map[domain.Algorithm]string{
			domain.AlgorithmTSP:     "tsp",
			domain.AlgorithmPrim:    "prims",
			domain.AlgorithmKruskal: "kruskals",
		},
		KmPerUnit: 1,
	}

	PackagesDialect = Dialect{
		Name:          "packages",
		ItemsField:    "packages",
		CapacityField: "weightLimit",
		AlgorithmNames: map[domain.Algorithm]string{
			domain.AlgorithmTSP:     "tsp",
			domain.AlgorithmPrim:    "prim",
			domain.AlgorithmKruskal: "kruskal",
		},
		KmPerUnit: 0.001,
	}
)

func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MedicinesDialect.Name:
		return MedicinesDialect, nil
	case PackagesDialect.Name:
		return PackagesDialect, nil
	}
	return Dialect{}, fmt.Errorf("unknown planner dialect %q", name)
}

type wireItem struct {
	ID     int     `json:"id"`
	Name   string  `json:"name,omitempty"`
	Weight float64 `json:"weight"`
	Value  float64 `json:"value"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

// EncodeRequest renders the request body. Keys are emitted in sorted
// order, so equal requests always encode to equal bytes.
func (d Dialect) EncodeRequest(req domain.PlanningRequest) ([]byte, error) {
	alg, ok := d.AlgorithmNames[req.Algorithm]
	if !ok {
		return nil, fmt.Errorf("encode request: %w", domain.NewValidationError(
			domain.ReasonUnknownAlgorithm, "algorithm %q not supported by %s planner", req.Algorithm, d.Name,
		))
	}

	items := make([]wireItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, wireItem{
			ID:     it.ID,
			Name:   it.Name,
			Weight: it.Weight,
			Value:  it.Value,
			Lat:    it.Location.Lat,
			Lng:    it.Location.Lng,
		})
	}

	body := map[string]any{
		d.ItemsField:    items,
		d.CapacityField: req.Capacity,
		"algorithm":     alg,
		"compare":       req.CompareAll,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return payload, nil
}

type wireStop struct {
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
	Name string   `json:"name"`
}

type wireSelected struct {
	ID               *int     `json:"id"`
	Name             string   `json:"name"`
	Weight           float64  `json:"weight"`
	Value            float64  `json:"value"`
	Lat              *float64 `json:"lat"`
	Lng              *float64 `json:"lng"`
	SelectedFraction *float64 `json:"selected_fraction"`
}

type wireResponse struct {
	Route             *[]wireStop                `json:"route"`
	TotalDistance     *float64                   `json:"total_distance"`
	TotalDistanceAlt  *float64                   `json:"totalDistance"`
	SelectedItems     []wireSelected             `json:"selected_items"`
	SelectedMedicines []wireSelected             `json:"selected_medicines"`
	SelectedPackages  []wireSelected             `json:"selected_packages"`
	SelectedAlt       []wireSelected             `json:"selectedPackages"`
	TotalValue        *float64                   `json:"total_value"`
	Comparison        map[string]json.RawMessage `json:"comparison"`
}

type wireDistance struct {
	Distance *float64 `json:"distance"`
}

// DecodeResult is the single normalization step at the response boundary:
// aliases are folded, distances converted to kilometres and selected items
// resolved back to the ids of req.
func (d Dialect) DecodeResult(req domain.PlanningRequest, body []byte) (domain.PlanningResult, error) {
	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return domain.PlanningResult{}, &domain.ResponseShapeError{Err: fmt.Errorf("decode body: %w", err)}
	}

	if wr.Route == nil {
		return domain.PlanningResult{}, &domain.ResponseShapeError{Field: "route", Err: errMissing}
	}

	route := make([]domain.Stop, 0, len(*wr.Route))
	for i, s := range *wr.Route {
		if s.Lat == nil || s.Lng == nil {
			return domain.PlanningResult{}, &domain.ResponseShapeError{
				Field: fmt.Sprintf("route[%d]", i),
				Err:   errors.New("missing lat/lng"),
			}
		}
		at := domain.LatLng{Lat: *s.Lat, Lng: *s.Lng}
		if !at.Valid() {
			return domain.PlanningResult{}, &domain.ResponseShapeError{
				Field: fmt.Sprintf("route[%d]", i),
				Err:   fmt.Errorf("coordinate %v,%v out of range", at.Lat, at.Lng),
			}
		}
		route = append(route, domain.Stop{Location: at, Name: s.Name})
	}

	total := wr.TotalDistance
	if total == nil {
		total = wr.TotalDistanceAlt
	}
	if total == nil || !finite(*total) || *total < 0 {
		return domain.PlanningResult{}, &domain.ResponseShapeError{Field: "total_distance", Err: errMissing}
	}

	selected, err := d.resolveSelected(req, firstNonEmpty(
		wr.SelectedItems, wr.SelectedMedicines, wr.SelectedPackages, wr.SelectedAlt,
	))
	if err != nil {
		return domain.PlanningResult{}, err
	}

	value := 0.0
	if wr.TotalValue != nil {
		value = *wr.TotalValue
	} else {
		for _, s := range selected {
			value += s.Value * s.Fraction
		}
	}

	result := domain.PlanningResult{
		Algorithm:       req.Algorithm,
		Route:           route,
		TotalDistanceKm: *total * d.KmPerUnit,
		SelectedItems:   selected,
		TotalValue:      value,
	}

	// Some planners always send a comparison; it is only shown when asked for.
	if req.CompareAll && wr.Comparison != nil {
		cmp, err := d.decodeComparison(wr.Comparison)
		if err != nil {
			return domain.PlanningResult{}, err
		}
		result.Comparison = cmp
	}

	return result, nil
}

func (d Dialect) resolveSelected(req domain.PlanningRequest, in []wireSelected) ([]domain.SelectedItem, error) {
	byID := make(map[int]domain.Item, len(req.Items))
	for _, it := range req.Items {
		byID[it.ID] = it
	}

	out := make([]domain.SelectedItem, 0, len(in))
	for i, w := range in {
		frac := 1.0
		if w.SelectedFraction != nil {
			frac = *w.SelectedFraction
		}
		if !finite(frac) || frac < 0 || frac > 1 {
			return nil, &domain.ResponseShapeError{
				Field: fmt.Sprintf("selected_items[%d].selected_fraction", i),
				Err:   fmt.Errorf("fraction %v outside [0,1]", frac),
			}
		}

		s := domain.SelectedItem{
			Name:     w.Name,
			Weight:   w.Weight,
			Value:    w.Value,
			Fraction: frac,
		}
		if w.Lat != nil && w.Lng != nil {
			s.Location = domain.LatLng{Lat: *w.Lat, Lng: *w.Lng}
		}

		if it, ok := matchItem(req.Items, byID, w); ok {
			s.ItemID = it.ID
			s.Location = it.Location
			if s.Name == "" {
				s.Name = it.Name
			}
		} else {
			log.Printf("planner: selected item %d (%q) does not match any requested item", i, w.Name)
		}

		out = append(out, s)
	}

	return out, nil
}

// matchItem prefers the echoed id, then falls back to name plus location.
func matchItem(items []domain.Item, byID map[int]domain.Item, w wireSelected) (domain.Item, bool) {
	if w.ID != nil {
		if it, ok := byID[*w.ID]; ok {
			return it, true
		}
	}

	if w.Lat == nil || w.Lng == nil {
		return domain.Item{}, false
	}
	for _, it := range items {
		if it.Name == w.Name && sameCoord(it.Location.Lat, *w.Lat) && sameCoord(it.Location.Lng, *w.Lng) {
			return it, true
		}
	}
	return domain.Item{}, false
}

func (d Dialect) decodeComparison(raw map[string]json.RawMessage) (map[domain.Algorithm]float64, error) {
	out := make(map[domain.Algorithm]float64, len(raw))
	for key, msg := range raw {
		alg, err := domain.ParseAlgorithm(key)
		if err != nil {
			log.Printf("planner: ignoring comparison entry %q", key)
			continue
		}

		dist, err := decodeDistance(msg)
		if err != nil {
			return nil, &domain.ResponseShapeError{Field: "comparison." + key, Err: err}
		}
		out[alg] = dist * d.KmPerUnit
	}
	return out, nil
}

// decodeDistance accepts either a bare number or {"distance": number}.
func decodeDistance(msg json.RawMessage) (float64, error) {
	msg = bytes.TrimSpace(msg)

	var f float64
	if err := json.Unmarshal(msg, &f); err == nil {
		if !finite(f) {
			return 0, errors.New("not finite")
		}
		return f, nil
	}

	var wd wireDistance
	if err := json.Unmarshal(msg, &wd); err != nil {
		return 0, fmt.Errorf("expected number or {distance}: %w", err)
	}
	if wd.Distance == nil || !finite(*wd.Distance) {
		return 0, fmt.Errorf("distance: %w", errMissing)
	}
	return *wd.Distance, nil
}

func firstNonEmpty(lists ...[]wireSelected) []wireSelected {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}

func sameCoord(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
