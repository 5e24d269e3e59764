package canvas

import (
	"delivery-planning-session/internal/domain"
	"delivery-planning-session/internal/ports"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCanvasLayers(t *testing.T) {
	c := NewMemoryCanvas()

	origin, err := c.PlaceMarker(domain.LatLng{Lat: 11, Lng: 77}, "Origin", ports.MarkerOrigin)
	require.NoError(t, err)
	m, err := c.PlaceMarker(domain.LatLng{Lat: 11.1, Lng: 77.1}, "A", ports.MarkerCandidate)
	require.NoError(t, err)
	line, err := c.DrawPolyline([]domain.LatLng{{Lat: 11, Lng: 77}, {Lat: 11.1, Lng: 77.1}})
	require.NoError(t, err)

	require.NoError(t, c.SetMarkerStyle(m, ports.MarkerSelected))

	snap := c.Snapshot()
	require.Len(t, snap.Markers, 2)
	assert.Equal(t, origin, snap.Markers[0].ID)
	assert.Equal(t, ports.MarkerSelected, snap.Markers[1].Style)
	require.Len(t, snap.Polylines, 1)

	require.NoError(t, c.RemoveLayer(line))
	assert.Empty(t, c.Snapshot().Polylines)

	err = c.RemoveLayer(line)
	assert.True(t, errors.Is(err, ErrUnknownLayer))
	assert.True(t, errors.Is(c.SetMarkerStyle(line, ports.MarkerSelected), ErrUnknownLayer))
}

func TestMemoryCanvasRejectsBadInput(t *testing.T) {
	c := NewMemoryCanvas()

	_, err := c.PlaceMarker(domain.LatLng{Lat: 91, Lng: 0}, "x", ports.MarkerPending)
	assert.Error(t, err)

	_, err = c.DrawPolyline([]domain.LatLng{{Lat: 1, Lng: 1}})
	assert.Error(t, err)
}

func TestMemoryCanvasViewport(t *testing.T) {
	c := NewMemoryCanvas()

	require.NoError(t, c.FitBounds(domain.LatLng{Lat: 10, Lng: 76}, domain.LatLng{Lat: 12, Lng: 78}, 50))
	vp := c.Snapshot().Viewport
	require.NotNil(t, vp.Fit)
	assert.Equal(t, 50, vp.Fit.PaddingPx)
	assert.Equal(t, domain.LatLng{Lat: 11, Lng: 77}, vp.Center)

	require.NoError(t, c.SetView(domain.LatLng{Lat: 11, Lng: 77}, 13))
	vp = c.Snapshot().Viewport
	assert.Nil(t, vp.Fit)
	assert.Equal(t, 13, vp.Zoom)
}

func TestMemoryCanvasGeoJSON(t *testing.T) {
	c := NewMemoryCanvas()
	_, err := c.PlaceMarker(domain.LatLng{Lat: 11, Lng: 77}, "Origin", ports.MarkerOrigin)
	require.NoError(t, err)
	_, err = c.DrawPolyline([]domain.LatLng{{Lat: 11, Lng: 77}, {Lat: 11.1, Lng: 77.1}})
	require.NoError(t, err)

	b, err := c.MarshalGeoJSON()
	require.NoError(t, err)

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))

	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 2)
	assert.Equal(t, "Point", doc.Features[0].Geometry.Type)
	assert.JSONEq(t, `[77,11]`, string(doc.Features[0].Geometry.Coordinates))
	assert.Equal(t, "origin", doc.Features[0].Properties["style"])
	assert.Equal(t, "LineString", doc.Features[1].Geometry.Type)
}
