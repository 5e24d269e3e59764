package ports

import "delivery-planning-session/internal/domain"

// LayerID identifies a marker or polyline placed on a MapCanvas.
type LayerID string

type MarkerStyle string

const (
	MarkerOrigin    MarkerStyle = "origin"
	MarkerPending   MarkerStyle = "pending"
	MarkerCandidate MarkerStyle = "candidate"
	MarkerSelected  MarkerStyle = "selected"
)

// MapCanvas is the map capability surface consumed by the session.
// The tile engine behind it is not part of this module.
type MapCanvas interface {
	PlaceMarker(at domain.LatLng, label string, style MarkerStyle) (LayerID, error)
	SetMarkerStyle(id LayerID, style MarkerStyle) error
	DrawPolyline(path []domain.LatLng) (LayerID, error)
	RemoveLayer(id LayerID) error
	FitBounds(min, max domain.LatLng, paddingPx int) error
	SetView(center domain.LatLng, zoom int) error
}
