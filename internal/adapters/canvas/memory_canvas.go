package canvas

import (
	"delivery-planning-session/internal/domain"
	"delivery-planning-session/internal/ports"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
)

var ErrUnknownLayer = errors.New("canvas: unknown layer")

type LayerKind string

const (
	LayerMarker   LayerKind = "marker"
	LayerPolyline LayerKind = "polyline"
)

type Layer struct {
	ID    ports.LayerID     `json:"id"`
	Kind  LayerKind         `json:"kind"`
	Label string            `json:"label,omitempty"`
	Style ports.MarkerStyle `json:"style,omitempty"`
	At    domain.LatLng     `json:"at"`
	Path  []domain.LatLng   `json:"path,omitempty"`
	seq   int
}

type Bounds struct {
	Min       domain.LatLng `json:"min"`
	Max       domain.LatLng `json:"max"`
	PaddingPx int           `json:"padding_px"`
}

// Viewport is the last view request. Fit is set by FitBounds and cleared by SetView.
type Viewport struct {
	Center domain.LatLng `json:"center"`
	Zoom   int           `json:"zoom"`
	Fit    *Bounds       `json:"fit,omitempty"`
}

type Snapshot struct {
	Markers   []Layer  `json:"markers"`
	Polylines []Layer  `json:"polylines"`
	Viewport  Viewport `json:"viewport"`
}

// MemoryCanvas is a headless ports.MapCanvas. It keeps the layer set a
// browser map would show so it can be inspected or exported.
type MemoryCanvas struct {
	mu       sync.Mutex
	next     int
	layers   map[ports.LayerID]*Layer
	viewport Viewport
}

func NewMemoryCanvas() *MemoryCanvas {
	return &MemoryCanvas{layers: make(map[ports.LayerID]*Layer)}
}

func (c *MemoryCanvas) PlaceMarker(at domain.LatLng, label string, style ports.MarkerStyle) (ports.LayerID, error) {
	if !at.Valid() {
		return "", fmt.Errorf("place marker: invalid coordinate %v,%v", at.Lat, at.Lng)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	l := c.add(LayerMarker)
	l.At = at
	l.Label = label
	l.Style = style
	return l.ID, nil
}

func (c *MemoryCanvas) SetMarkerStyle(id ports.LayerID, style ports.MarkerStyle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.layers[id]
	if !ok || l.Kind != LayerMarker {
		return fmt.Errorf("set marker style %s: %w", id, ErrUnknownLayer)
	}
	l.Style = style
	return nil
}

func (c *MemoryCanvas) DrawPolyline(path []domain.LatLng) (ports.LayerID, error) {
	if len(path) < 2 {
		return "", fmt.Errorf("draw polyline: need at least 2 points, got %d", len(path))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	l := c.add(LayerPolyline)
	l.Path = slices.Clone(path)
	return l.ID, nil
}

func (c *MemoryCanvas) RemoveLayer(id ports.LayerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.layers[id]; !ok {
		return fmt.Errorf("remove layer %s: %w", id, ErrUnknownLayer)
	}
	delete(c.layers, id)
	return nil
}

func (c *MemoryCanvas) FitBounds(min, max domain.LatLng, paddingPx int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.viewport.Center = domain.LatLng{Lat: (min.Lat + max.Lat) / 2, Lng: (min.Lng + max.Lng) / 2}
	c.viewport.Fit = &Bounds{Min: min, Max: max, PaddingPx: paddingPx}
	return nil
}

func (c *MemoryCanvas) SetView(center domain.LatLng, zoom int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.viewport = Viewport{Center: center, Zoom: zoom}
	return nil
}

// Snapshot returns the current layers in placement order.
func (c *MemoryCanvas) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	layers := make([]*Layer, 0, len(c.layers))
	for _, l := range c.layers {
		layers = append(layers, l)
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i].seq < layers[j].seq })

	snap := Snapshot{Markers: []Layer{}, Polylines: []Layer{}, Viewport: c.viewport}
	if c.viewport.Fit != nil {
		fit := *c.viewport.Fit
		snap.Viewport.Fit = &fit
	}
	for _, l := range layers {
		cp := *l
		cp.Path = slices.Clone(l.Path)
		if l.Kind == LayerMarker {
			snap.Markers = append(snap.Markers, cp)
		} else {
			snap.Polylines = append(snap.Polylines, cp)
		}
	}
	return snap
}

func (c *MemoryCanvas) add(kind LayerKind) *Layer {
	c.next++
	l := &Layer{ID: ports.LayerID(fmt.Sprintf("%s-%d", kind, c.next)), Kind: kind, seq: c.next}
	c.layers[l.ID] = l
	return l
}
