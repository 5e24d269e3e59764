package services

import (
	"delivery-planning-session/internal/adapters/chart"
	"delivery-planning-session/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioResult() *domain.PlanningResult {
	return &domain.PlanningResult{
		Algorithm: domain.AlgorithmTSP,
		Route: []domain.Stop{
			{Location: testOrigin, Name: "Origin"},
			{Location: domain.LatLng{Lat: 11.1, Lng: 77.1}, Name: "A"},
			{Location: domain.LatLng{Lat: 11.2, Lng: 77.2}, Name: "B"},
			{Location: testOrigin, Name: "Origin"},
		},
		TotalDistanceKm: 12.5,
		SelectedItems: []domain.SelectedItem{
			{ItemID: 1, Name: "A", Weight: 2, Value: 50, Fraction: 1},
			{ItemID: 2, Name: "B", Weight: 2, Value: 60, Fraction: 0.5},
		},
		TotalValue: 80,
	}
}

func TestRendererSummaryDerivesWeight(t *testing.T) {
	r := NewResultRenderer(chart.NewMemoryChartEngine())
	require.NoError(t, r.Render(scenarioResult()))

	s := r.Summary()
	require.NotNil(t, s)
	assert.Equal(t, "Travelling Salesman Problem (TSP)", s.Algorithm)
	assert.Equal(t, 2, s.SelectedCount)
	assert.InDelta(t, 3.0, s.TotalWeight, 1e-9)
	assert.Equal(t, 80.0, s.TotalValue)
	assert.Equal(t, 12.5, s.TotalDistanceKm)
	assert.Equal(t, 50.0, s.Rows[1].FractionPercent)
	assert.Equal(t, []string{"Origin", "A", "B", "Origin"}, s.Stops)
}

func TestRendererComparisonOrderAndHide(t *testing.T) {
	engine := chart.NewMemoryChartEngine()
	r := NewResultRenderer(engine)

	require.NoError(t, r.RenderComparison(map[domain.Algorithm]float64{
		domain.AlgorithmKruskal: 13.2,
		domain.AlgorithmTSP:     12.5,
		domain.AlgorithmPrim:    14,
	}))

	rows := r.Comparison()
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"TSP", "Prim's", "Kruskal's"}, []string{rows[0].Label, rows[1].Label, rows[2].Label})
	assert.Equal(t, 1, engine.LiveOn(PanelComparison))

	require.NoError(t, r.RenderComparison(nil))
	assert.Nil(t, r.Comparison())
	assert.Zero(t, engine.LiveOn(PanelComparison))
}

func TestRendererDisposesBeforeCreate(t *testing.T) {
	engine := chart.NewMemoryChartEngine()
	r := NewResultRenderer(engine)

	res := scenarioResult()
	res.Comparison = map[domain.Algorithm]float64{domain.AlgorithmTSP: 12.5}

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Render(res))
	}

	assert.Equal(t, 9, engine.Created(), "three panels, three renders")
	assert.Len(t, engine.Live(), 3)
	for _, p := range []string{PanelComparison, PanelSelection, PanelProgress} {
		assert.Equal(t, 1, engine.LiveOn(p), p)
	}

	require.NoError(t, r.Clear())
	assert.Empty(t, engine.Live())
	assert.Nil(t, r.Summary())
	assert.Empty(t, r.ActiveCharts())
}

func TestRendererRouteProgressIsCumulative(t *testing.T) {
	engine := chart.NewMemoryChartEngine()
	r := NewResultRenderer(engine)
	require.NoError(t, r.RenderRouteProgress(scenarioResult().Route))

	live := engine.Live()
	require.Len(t, live, 1)
	spec := live[0].Spec
	assert.Equal(t, []string{"Origin → A", "A → B", "B → Origin"}, spec.Labels)

	vals := spec.Series[0].Values
	require.Len(t, vals, 3)
	assert.Greater(t, vals[1], vals[0])
	assert.Greater(t, vals[2], vals[1])
}
