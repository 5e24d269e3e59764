package services

import (
	"delivery-planning-session/internal/adapters/canvas"
	"delivery-planning-session/internal/domain"
	"delivery-planning-session/internal/ports"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) (*ItemRegistry, *GeolocationPicker, *canvas.MemoryCanvas) {
	t.Helper()
	c := canvas.NewMemoryCanvas()
	p := NewGeolocationPicker(c)
	return NewItemRegistry(p, domain.MedicineValueRange), p, c
}

func addAt(t *testing.T, r *ItemRegistry, p *GeolocationPicker, at domain.LatLng, d domain.ItemDraft) domain.Item {
	t.Helper()
	require.NoError(t, p.Select(at))
	it, err := r.Add(d)
	require.NoError(t, err)
	return it
}

func TestPickerKeepsOneTemporaryMarker(t *testing.T) {
	c := canvas.NewMemoryCanvas()
	p := NewGeolocationPicker(c)

	require.NoError(t, p.Select(domain.LatLng{Lat: 11, Lng: 77}))
	require.NoError(t, p.Select(domain.LatLng{Lat: 11.5, Lng: 77.5}))

	markers := c.Snapshot().Markers
	require.Len(t, markers, 1)
	assert.Equal(t, ports.MarkerPending, markers[0].Style)
	assert.Equal(t, domain.LatLng{Lat: 11.5, Lng: 77.5}, markers[0].At)

	at, ok := p.Pending()
	require.True(t, ok)
	assert.Equal(t, 11.5, at.Lat)
}

func TestPickerConfirmAndCancel(t *testing.T) {
	c := canvas.NewMemoryCanvas()
	p := NewGeolocationPicker(c)

	_, err := p.Confirm()
	assert.True(t, errors.Is(err, domain.ErrNoPendingSelection))

	require.NoError(t, p.Select(domain.LatLng{Lat: 1, Lng: 2}))
	at, err := p.Confirm()
	require.NoError(t, err)
	assert.Equal(t, domain.LatLng{Lat: 1, Lng: 2}, at)
	assert.Empty(t, c.Snapshot().Markers)

	require.NoError(t, p.Select(domain.LatLng{Lat: 1, Lng: 2}))
	require.NoError(t, p.Cancel())
	_, ok := p.Pending()
	assert.False(t, ok)
	assert.Empty(t, c.Snapshot().Markers)

	// Cancel with nothing pending is harmless.
	assert.NoError(t, p.Cancel())
}

func TestPickerRejectsInvalidCoordinate(t *testing.T) {
	p := NewGeolocationPicker(canvas.NewMemoryCanvas())
	err := p.Select(domain.LatLng{Lat: 100, Lng: 0})
	assert.True(t, errors.Is(err, domain.ErrInvalidCoordinate))
}

func TestRegistryRunningSum(t *testing.T) {
	r, p, _ := newRegistry(t)

	a := addAt(t, r, p, domain.LatLng{Lat: 11.1, Lng: 77.1}, domain.ItemDraft{Name: "A", Weight: 0.1, Value: 10})
	addAt(t, r, p, domain.LatLng{Lat: 11.2, Lng: 77.2}, domain.ItemDraft{Name: "B", Weight: 0.2, Value: 20})
	c := addAt(t, r, p, domain.LatLng{Lat: 11.3, Lng: 77.3}, domain.ItemDraft{Name: "C", Weight: 0.7, Value: 30})

	sum := func() float64 {
		total := 0.0
		for _, it := range r.Items() {
			total += it.Weight
		}
		return total
	}

	assert.InDelta(t, sum(), r.TotalWeight(), 1e-9)

	require.True(t, r.Remove(a.ID))
	assert.InDelta(t, sum(), r.TotalWeight(), 1e-9)

	r.Remove(c.ID)
	r.Remove(2)
	assert.Zero(t, r.Len())
	assert.Equal(t, 0.0, r.TotalWeight(), "empty registry resets the sum exactly")
}

func TestRegistryAddAfterCancelFails(t *testing.T) {
	r, p, _ := newRegistry(t)

	require.NoError(t, p.Select(domain.LatLng{Lat: 11, Lng: 77}))
	require.NoError(t, p.Cancel())

	_, err := r.Add(domain.ItemDraft{Name: "A", Weight: 1, Value: 10})
	assert.True(t, errors.Is(err, domain.ErrNoLocationSelected))
	assert.Zero(t, r.Len())
	assert.Zero(t, r.TotalWeight())
}

func TestRegistryValidationKeepsPendingSelection(t *testing.T) {
	r, p, _ := newRegistry(t)
	require.NoError(t, p.Select(domain.LatLng{Lat: 11, Lng: 77}))

	_, err := r.Add(domain.ItemDraft{Name: "", Weight: 1, Value: 10})
	assert.True(t, errors.Is(err, domain.ErrMissingName))

	_, ok := p.Pending()
	assert.True(t, ok, "a rejected draft must not consume the selection")

	// Validation outranks the missing location.
	require.NoError(t, p.Cancel())
	_, err = r.Add(domain.ItemDraft{Name: "A", Weight: 1, Value: 500})
	assert.True(t, errors.Is(err, domain.ErrInvalidValue))
}

func TestRegistryRemoveUnknownID(t *testing.T) {
	r, p, _ := newRegistry(t)
	addAt(t, r, p, domain.LatLng{Lat: 11, Lng: 77}, domain.ItemDraft{Name: "A", Weight: 2, Value: 10})

	before := r.Items()
	assert.False(t, r.Remove(99))
	assert.Equal(t, before, r.Items())
	assert.Equal(t, 2.0, r.TotalWeight())
}

func TestRegistryIDsNeverReused(t *testing.T) {
	r, p, _ := newRegistry(t)
	a := addAt(t, r, p, domain.LatLng{Lat: 11, Lng: 77}, domain.ItemDraft{Name: "A", Weight: 1, Value: 10})
	r.Remove(a.ID)
	b := addAt(t, r, p, domain.LatLng{Lat: 11, Lng: 77}, domain.ItemDraft{Name: "B", Weight: 1, Value: 10})
	r.Clear()
	c := addAt(t, r, p, domain.LatLng{Lat: 11, Lng: 77}, domain.ItemDraft{Name: "C", Weight: 1, Value: 10})

	assert.Equal(t, []int{1, 2, 3}, []int{a.ID, b.ID, c.ID})
}

func TestBuildRequestChecks(t *testing.T) {
	items := []domain.Item{{ID: 1, Name: "A", Weight: 1, Value: 1}}

	_, err := BuildRequest(nil, 4, "tsp", false)
	assert.True(t, errors.Is(err, domain.ErrEmptyRegistry))

	for _, c := range []float64{0, -1} {
		_, err = BuildRequest(items, c, "tsp", false)
		assert.True(t, errors.Is(err, domain.ErrInvalidCapacity), "capacity %v", c)
	}

	_, err = BuildRequest(items, 4, "genetic", false)
	assert.True(t, errors.Is(err, domain.ErrUnknownAlgorithm))

	_, err = ParseCapacity("ten")
	assert.True(t, errors.Is(err, domain.ErrInvalidCapacity))
	c, err := ParseCapacity(" 2.5 ")
	require.NoError(t, err)
	assert.Equal(t, 2.5, c)
}

func TestBuildRequestSnapshotIndependence(t *testing.T) {
	r, p, _ := newRegistry(t)
	addAt(t, r, p, domain.LatLng{Lat: 11.1, Lng: 77.1}, domain.ItemDraft{Name: "A", Weight: 2, Value: 50})

	req, err := BuildRequest(r.Items(), 4, "kruskals", true)
	require.NoError(t, err)

	addAt(t, r, p, domain.LatLng{Lat: 11.2, Lng: 77.2}, domain.ItemDraft{Name: "B", Weight: 3, Value: 30})
	r.Remove(1)

	require.Len(t, req.Items, 1)
	assert.Equal(t, "A", req.Items[0].Name)
	assert.Equal(t, domain.AlgorithmKruskal, req.Algorithm)
	assert.True(t, req.CompareAll)
}
