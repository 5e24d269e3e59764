package services

import (
	"delivery-planning-session/internal/domain"
	"delivery-planning-session/internal/ports"
	"fmt"
)

// GeolocationPicker tracks at most one unconfirmed map selection and the
// temporary marker that shows it.
type GeolocationPicker struct {
	canvas  ports.MapCanvas
	pending *domain.LatLng
	marker  ports.LayerID
}

func NewGeolocationPicker(canvas ports.MapCanvas) *GeolocationPicker {
	return &GeolocationPicker{canvas: canvas}
}

// Select replaces the pending selection. The previous temporary marker, if
// any, is removed before the new one is placed.
func (p *GeolocationPicker) Select(at domain.LatLng) error {
	if !at.Valid() {
		return domain.NewValidationError(domain.ReasonInvalidCoordinate, "invalid coordinate %v,%v", at.Lat, at.Lng)
	}

	if err := p.removeMarker(); err != nil {
		return fmt.Errorf("select location: %w", err)
	}

	id, err := p.canvas.PlaceMarker(at, "Delivery Location", ports.MarkerPending)
	if err != nil {
		return fmt.Errorf("select location: place marker: %w", err)
	}

	p.pending = &at
	p.marker = id
	return nil
}

// Confirm consumes and returns the pending selection.
func (p *GeolocationPicker) Confirm() (domain.LatLng, error) {
	if p.pending == nil {
		return domain.LatLng{}, domain.ErrNoPendingSelection
	}

	at := *p.pending
	p.pending = nil
	if err := p.removeMarker(); err != nil {
		return domain.LatLng{}, fmt.Errorf("confirm location: %w", err)
	}

	return at, nil
}

// Cancel drops the pending selection and its temporary marker.
func (p *GeolocationPicker) Cancel() error {
	p.pending = nil
	if err := p.removeMarker(); err != nil {
		return fmt.Errorf("cancel location: %w", err)
	}
	return nil
}

func (p *GeolocationPicker) Pending() (domain.LatLng, bool) {
	if p.pending == nil {
		return domain.LatLng{}, false
	}
	return *p.pending, true
}

func (p *GeolocationPicker) removeMarker() error {
	if p.marker == "" {
		return nil
	}

	id := p.marker
	p.marker = ""
	if err := p.canvas.RemoveLayer(id); err != nil {
		return fmt.Errorf("remove temporary marker %s: %w", id, err)
	}
	return nil
}
