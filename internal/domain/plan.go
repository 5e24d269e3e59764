package domain

import (
	"maps"
	"slices"
)

// PlanningRequest is the snapshot sent to the external planner.
// It is built fresh per optimize action and never mutated afterwards.
type PlanningRequest struct {
	Items      []Item
	Capacity   float64
	Algorithm  Algorithm
	CompareAll bool
}

// Represents a single stop of the returned route.
type Stop struct {
	Location LatLng
	Name     string
}

// SelectedItem is one entry of the planner's selection. ItemID refers back to
// the registry item the planner was sent; it is zero when the planner echoed
// an item that could not be matched.
type SelectedItem struct {
	ItemID   int
	Name     string
	Weight   float64
	Value    float64
	Location LatLng
	Fraction float64
}

// PlanningResult is the normalized planner response. All distances are in
// kilometres. Comparison is nil unless a comparison was requested and returned.
type PlanningResult struct {
	Algorithm       Algorithm
	Route           []Stop
	TotalDistanceKm float64
	SelectedItems   []SelectedItem
	TotalValue      float64
	Comparison      map[Algorithm]float64
}

// SelectedIDs returns the resolved item ids of the selection, in order.
func (r *PlanningResult) SelectedIDs() []int {
	ids := make([]int, 0, len(r.SelectedItems))
	for _, s := range r.SelectedItems {
		if s.ItemID != 0 && s.Fraction > 0 {
			ids = append(ids, s.ItemID)
		}
	}
	return ids
}

// Clone returns a deep copy, so a result shared between sessions can be
// rendered by each without aliasing.
func (r PlanningResult) Clone() PlanningResult {
	out := r
	out.Route = slices.Clone(r.Route)
	out.SelectedItems = slices.Clone(r.SelectedItems)
	if r.Comparison != nil {
		out.Comparison = maps.Clone(r.Comparison)
	}
	return out
}
