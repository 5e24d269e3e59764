package services

import (
	"delivery-planning-session/internal/adapters/canvas"
	"delivery-planning-session/internal/domain"
	"delivery-planning-session/internal/ports"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOrigin = domain.LatLng{Lat: 11.0292, Lng: 77.0263}

func stops(points ...domain.LatLng) []domain.Stop {
	out := make([]domain.Stop, 0, len(points))
	for _, p := range points {
		out = append(out, domain.Stop{Location: p})
	}
	return out
}

func TestMapViewOriginRenderedOnce(t *testing.T) {
	c := canvas.NewMemoryCanvas()
	v := NewMapView(c, testOrigin, "Origin")

	require.NoError(t, v.RenderOrigin())
	require.NoError(t, v.RenderOrigin())

	snap := c.Snapshot()
	require.Len(t, snap.Markers, 1)
	assert.Equal(t, ports.MarkerOrigin, snap.Markers[0].Style)
	assert.Equal(t, 13, snap.Viewport.Zoom)
	assert.Equal(t, testOrigin, snap.Viewport.Center)
}

func TestMapViewRenderRouteReplacesSegments(t *testing.T) {
	c := canvas.NewMemoryCanvas()
	v := NewMapView(c, testOrigin, "Origin")

	a := stops(testOrigin, domain.LatLng{Lat: 11.1, Lng: 77.1}, domain.LatLng{Lat: 11.2, Lng: 77.2}, testOrigin)
	b := stops(testOrigin, domain.LatLng{Lat: 10.9, Lng: 76.9}, testOrigin)

	require.NoError(t, v.RenderRoute(a))
	assert.Len(t, c.Snapshot().Polylines, 3)

	require.NoError(t, v.RenderRoute(b))
	lines := c.Snapshot().Polylines
	require.Len(t, lines, 2, "only the second route's segments remain")
	assert.Equal(t, []domain.LatLng{testOrigin, {Lat: 10.9, Lng: 76.9}}, lines[0].Path)
	assert.Equal(t, 2, v.SegmentCount())

	fit := c.Snapshot().Viewport.Fit
	require.NotNil(t, fit)
	assert.Equal(t, 50, fit.PaddingPx)
	assert.Equal(t, domain.LatLng{Lat: 10.9, Lng: 76.9}, fit.Min)
	assert.Equal(t, testOrigin, fit.Max)
}

func TestMapViewEmptyRoute(t *testing.T) {
	c := canvas.NewMemoryCanvas()
	v := NewMapView(c, testOrigin, "Origin")

	require.NoError(t, v.RenderRoute(stops(testOrigin, domain.LatLng{Lat: 11.1, Lng: 77.1})))
	require.NoError(t, v.RenderRoute(nil))
	assert.Empty(t, c.Snapshot().Polylines)
}

func TestMapViewHighlightIsTotal(t *testing.T) {
	c := canvas.NewMemoryCanvas()
	v := NewMapView(c, testOrigin, "Origin")
	require.NoError(t, v.RenderOrigin())

	items := []domain.Item{
		{ID: 1, Name: "A", Weight: 2, Value: 50, Location: domain.LatLng{Lat: 11.1, Lng: 77.1}},
		{ID: 2, Name: "B", Weight: 3, Value: 30, Location: domain.LatLng{Lat: 11.2, Lng: 77.2}},
	}
	require.NoError(t, v.RenderCandidates(items))

	require.NoError(t, v.Highlight([]int{2}))
	require.NoError(t, v.Highlight([]int{1}))

	styles := map[string]ports.MarkerStyle{}
	for _, m := range c.Snapshot().Markers {
		styles[m.Label] = m.Style
	}
	assert.Equal(t, ports.MarkerOrigin, styles["Origin"])
	assert.Equal(t, ports.MarkerSelected, styles["A (2kg, value 50)"])
	assert.Equal(t, ports.MarkerCandidate, styles["B (3kg, value 30)"])
}

func TestMapViewRenderCandidatesReplacesMarkers(t *testing.T) {
	c := canvas.NewMemoryCanvas()
	v := NewMapView(c, testOrigin, "Origin")
	require.NoError(t, v.RenderOrigin())

	items := []domain.Item{{ID: 1, Name: "A", Weight: 1, Value: 1, Location: domain.LatLng{Lat: 11.1, Lng: 77.1}}}
	require.NoError(t, v.RenderCandidates(items))
	require.NoError(t, v.RenderCandidates(items))
	assert.Len(t, c.Snapshot().Markers, 2)

	require.NoError(t, v.Clear())
	snap := c.Snapshot()
	require.Len(t, snap.Markers, 1, "origin survives clear")
	assert.Nil(t, snap.Viewport.Fit)
}
