package services

import (
	"delivery-planning-session/internal/domain"
	"delivery-planning-session/internal/ports"
	"fmt"

	"github.com/paulmach/orb"
)

const (
	defaultZoom      = 13
	fitBoundsPadding = 50
)

type candidateMarker struct {
	itemID int
	layer  ports.LayerID
}

// MapView keeps the map canvas in step with the session: one permanent
// origin marker, one marker per registry item, and the current route.
// Every render call replaces what it owns; nothing accumulates.
type MapView struct {
	canvas     ports.MapCanvas
	origin     domain.LatLng
	originName string

	originMarker ports.LayerID
	markers      []candidateMarker
	segments     []ports.LayerID
}

func NewMapView(canvas ports.MapCanvas, origin domain.LatLng, originName string) *MapView {
	return &MapView{canvas: canvas, origin: origin, originName: originName}
}

// RenderOrigin places the origin marker once and centres the view on it.
func (v *MapView) RenderOrigin() error {
	if v.originMarker != "" {
		return nil
	}

	id, err := v.canvas.PlaceMarker(v.origin, v.originName, ports.MarkerOrigin)
	if err != nil {
		return fmt.Errorf("render origin: %w", err)
	}
	v.originMarker = id

	return v.ResetView()
}

// RenderCandidates replaces every non-origin marker with one per item.
func (v *MapView) RenderCandidates(items []domain.Item) error {
	if err := v.removeCandidates(); err != nil {
		return fmt.Errorf("render candidates: %w", err)
	}

	for _, it := range items {
		label := fmt.Sprintf("%s (%gkg, value %g)", it.Name, it.Weight, it.Value)
		id, err := v.canvas.PlaceMarker(it.Location, label, ports.MarkerCandidate)
		if err != nil {
			return fmt.Errorf("render candidates: place marker for item %d: %w", it.ID, err)
		}
		v.markers = append(v.markers, candidateMarker{itemID: it.ID, layer: id})
	}

	return nil
}

// RenderRoute removes all previously drawn segments, draws one segment per
// consecutive stop pair and fits the viewport to the stops.
func (v *MapView) RenderRoute(stops []domain.Stop) error {
	if err := v.ClearRoute(); err != nil {
		return fmt.Errorf("render route: %w", err)
	}

	for i := 0; i+1 < len(stops); i++ {
		path := []domain.LatLng{stops[i].Location, stops[i+1].Location}
		id, err := v.canvas.DrawPolyline(path)
		if err != nil {
			return fmt.Errorf("render route: draw segment %d: %w", i, err)
		}
		v.segments = append(v.segments, id)
	}

	if len(stops) == 0 {
		return nil
	}

	mp := make(orb.MultiPoint, 0, len(stops))
	for _, s := range stops {
		mp = append(mp, orb.Point{s.Location.Lng, s.Location.Lat})
	}
	b := mp.Bound()

	lo := domain.LatLng{Lat: b.Min.Lat(), Lng: b.Min.Lon()}
	hi := domain.LatLng{Lat: b.Max.Lat(), Lng: b.Max.Lon()}
	if err := v.canvas.FitBounds(lo, hi, fitBoundsPadding); err != nil {
		return fmt.Errorf("render route: fit bounds: %w", err)
	}

	return nil
}

// Highlight makes one colour decision per candidate marker: selected when
// its item id is in ids, default otherwise.
func (v *MapView) Highlight(ids []int) error {
	selected := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		selected[id] = struct{}{}
	}

	for _, m := range v.markers {
		style := ports.MarkerCandidate
		if _, ok := selected[m.itemID]; ok {
			style = ports.MarkerSelected
		}
		if err := v.canvas.SetMarkerStyle(m.layer, style); err != nil {
			return fmt.Errorf("highlight item %d: %w", m.itemID, err)
		}
	}

	return nil
}

func (v *MapView) ClearRoute() error {
	for len(v.segments) > 0 {
		id := v.segments[0]
		v.segments = v.segments[1:]
		if err := v.canvas.RemoveLayer(id); err != nil {
			return fmt.Errorf("clear route: remove segment %s: %w", id, err)
		}
	}
	v.segments = nil
	return nil
}

func (v *MapView) ResetView() error {
	if err := v.canvas.SetView(v.origin, defaultZoom); err != nil {
		return fmt.Errorf("reset view: %w", err)
	}
	return nil
}

// Clear removes candidates and route and recentres on the origin.
func (v *MapView) Clear() error {
	if err := v.removeCandidates(); err != nil {
		return fmt.Errorf("clear map: %w", err)
	}
	if err := v.ClearRoute(); err != nil {
		return fmt.Errorf("clear map: %w", err)
	}
	return v.ResetView()
}

func (v *MapView) SegmentCount() int { return len(v.segments) }

func (v *MapView) removeCandidates() error {
	for len(v.markers) > 0 {
		m := v.markers[0]
		v.markers = v.markers[1:]
		if err := v.canvas.RemoveLayer(m.layer); err != nil {
			return fmt.Errorf("remove marker for item %d: %w", m.itemID, err)
		}
	}
	v.markers = nil
	return nil
}
