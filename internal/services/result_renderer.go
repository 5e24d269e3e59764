package services

import (
	"delivery-planning-session/internal/domain"
	"delivery-planning-session/internal/ports"
	"fmt"
	"slices"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"gonum.org/v1/gonum/floats"
)

// Chart panels owned by the renderer.
const (
	PanelComparison = "comparison"
	PanelSelection  = "selection"
	PanelProgress   = "progress"
)

type SummaryRow struct {
	ItemID          int     `json:"item_id"`
	Name            string  `json:"name"`
	Weight          float64 `json:"weight"`
	Value           float64 `json:"value"`
	FractionPercent float64 `json:"fraction_percent"`
}

// Summary is the selected-item panel. TotalWeight is derived from the
// selection (weight x fraction), never taken from the planner.
type Summary struct {
	Algorithm       string       `json:"algorithm"`
	SelectedCount   int          `json:"selected_count"`
	TotalWeight     float64      `json:"total_weight"`
	TotalValue      float64      `json:"total_value"`
	TotalDistanceKm float64      `json:"total_distance_km"`
	Stops           []string     `json:"stops"`
	Rows            []SummaryRow `json:"rows"`
}

type ComparisonRow struct {
	Algorithm  domain.Algorithm `json:"algorithm"`
	Label      string           `json:"label"`
	DistanceKm float64          `json:"distance_km"`
}

// ResultRenderer owns the result panels and their chart handles. Every
// chart render destroys the previous handle for that panel before creating
// a new one.
type ResultRenderer struct {
	charts     ports.ChartEngine
	summary    *Summary
	comparison []ComparisonRow
	handles    map[string]ports.ChartHandle
}

func NewResultRenderer(charts ports.ChartEngine) *ResultRenderer {
	return &ResultRenderer{charts: charts, handles: map[string]ports.ChartHandle{}}
}

// Render draws every panel for one result: summary, comparison, selection
// chart, route progress.
func (r *ResultRenderer) Render(result *domain.PlanningResult) error {
	r.RenderSummary(result)

	if err := r.RenderComparison(result.Comparison); err != nil {
		return err
	}
	if err := r.RenderSelectionChart(result.SelectedItems); err != nil {
		return err
	}
	return r.RenderRouteProgress(result.Route)
}

// RenderSummary replaces the summary panel.
func (r *ResultRenderer) RenderSummary(result *domain.PlanningResult) {
	weights := make([]float64, 0, len(result.SelectedItems))
	rows := make([]SummaryRow, 0, len(result.SelectedItems))
	for _, s := range result.SelectedItems {
		weights = append(weights, s.Weight*s.Fraction)
		rows = append(rows, SummaryRow{
			ItemID:          s.ItemID,
			Name:            s.Name,
			Weight:          s.Weight,
			Value:           s.Value,
			FractionPercent: s.Fraction * 100,
		})
	}

	stops := make([]string, 0, len(result.Route))
	for _, s := range result.Route {
		stops = append(stops, s.Name)
	}

	r.summary = &Summary{
		Algorithm:       result.Algorithm.FullName(),
		SelectedCount:   len(rows),
		TotalWeight:     floats.Sum(weights),
		TotalValue:      result.TotalValue,
		TotalDistanceKm: result.TotalDistanceKm,
		Stops:           stops,
		Rows:            rows,
	}
}

// RenderComparison shows one row per algorithm plus a bar chart, or hides
// the panel when cmp is nil.
func (r *ResultRenderer) RenderComparison(cmp map[domain.Algorithm]float64) error {
	if cmp == nil {
		r.comparison = nil
		return r.destroyChart(PanelComparison)
	}

	rows := make([]ComparisonRow, 0, len(cmp))
	for _, a := range domain.Algorithms {
		d, ok := cmp[a]
		if !ok {
			continue
		}
		rows = append(rows, ComparisonRow{Algorithm: a, Label: a.ShortName(), DistanceKm: d})
	}

	labels := make([]string, 0, len(rows))
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, row.Label)
		values = append(values, row.DistanceKm)
	}

	if err := r.replaceChart(PanelComparison, ports.ChartSpec{
		Kind:   ports.ChartBar,
		Title:  "Algorithm Distance Comparison",
		YLabel: "Distance (km)",
		Labels: labels,
		Series: []ports.ChartSeries{{Label: "Distance (km)", Values: values}},
	}); err != nil {
		return fmt.Errorf("render comparison: %w", err)
	}

	r.comparison = rows
	return nil
}

// RenderSelectionChart plots selected value against selected weight.
func (r *ResultRenderer) RenderSelectionChart(selected []domain.SelectedItem) error {
	if len(selected) == 0 {
		return r.destroyChart(PanelSelection)
	}

	labels := make([]string, 0, len(selected))
	values := make([]float64, 0, len(selected))
	weights := make([]float64, 0, len(selected))
	for _, s := range selected {
		labels = append(labels, s.Name)
		values = append(values, s.Value*s.Fraction)
		weights = append(weights, s.Weight*s.Fraction)
	}

	if err := r.replaceChart(PanelSelection, ports.ChartSpec{
		Kind:   ports.ChartBar,
		Title:  "Selected Items: Value vs Weight",
		Labels: labels,
		Series: []ports.ChartSeries{
			{Label: "Value", Values: values},
			{Label: "Weight (kg)", Values: weights},
		},
	}); err != nil {
		return fmt.Errorf("render selection chart: %w", err)
	}
	return nil
}

// RenderRouteProgress plots cumulative great-circle distance per segment.
func (r *ResultRenderer) RenderRouteProgress(route []domain.Stop) error {
	if len(route) < 2 {
		return r.destroyChart(PanelProgress)
	}

	labels := make([]string, 0, len(route)-1)
	cumulative := make([]float64, 0, len(route)-1)
	total := 0.0
	for i := 0; i+1 < len(route); i++ {
		from, to := route[i], route[i+1]
		total += geo.DistanceHaversine(
			orb.Point{from.Location.Lng, from.Location.Lat},
			orb.Point{to.Location.Lng, to.Location.Lat},
		) / 1000
		labels = append(labels, from.Name+" → "+to.Name)
		cumulative = append(cumulative, total)
	}

	if err := r.replaceChart(PanelProgress, ports.ChartSpec{
		Kind:   ports.ChartLine,
		Title:  "Route Progress: Cumulative Distance",
		YLabel: "Cumulative Distance (km)",
		Labels: labels,
		Series: []ports.ChartSeries{{Label: "Cumulative Distance (km)", Values: cumulative}},
	}); err != nil {
		return fmt.Errorf("render route progress: %w", err)
	}
	return nil
}

// Clear hides every panel and destroys all charts.
func (r *ResultRenderer) Clear() error {
	r.summary = nil
	r.comparison = nil
	for _, panel := range []string{PanelComparison, PanelSelection, PanelProgress} {
		if err := r.destroyChart(panel); err != nil {
			return err
		}
	}
	return nil
}

// Summary returns a copy of the summary panel, or nil when hidden.
func (r *ResultRenderer) Summary() *Summary {
	if r.summary == nil {
		return nil
	}
	s := *r.summary
	s.Rows = slices.Clone(r.summary.Rows)
	s.Stops = slices.Clone(r.summary.Stops)
	return &s
}

// Comparison returns the comparison rows, or nil when the panel is hidden.
func (r *ResultRenderer) Comparison() []ComparisonRow {
	return slices.Clone(r.comparison)
}

// ActiveCharts lists panels that currently hold a live chart.
func (r *ResultRenderer) ActiveCharts() []string {
	out := make([]string, 0, len(r.handles))
	for p := range r.handles {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (r *ResultRenderer) replaceChart(panel string, spec ports.ChartSpec) error {
	if err := r.destroyChart(panel); err != nil {
		return err
	}

	h, err := r.charts.NewChart(panel, spec)
	if err != nil {
		return fmt.Errorf("create %s chart: %w", panel, err)
	}
	r.handles[panel] = h
	return nil
}

// destroyChart drops the handle before destroying it so a failed Destroy
// can never leave a disposed handle behind for reuse.
func (r *ResultRenderer) destroyChart(panel string) error {
	h, ok := r.handles[panel]
	if !ok {
		return nil
	}
	delete(r.handles, panel)

	if err := h.Destroy(); err != nil {
		return fmt.Errorf("destroy %s chart: %w", panel, err)
	}
	return nil
}
