package ports

import "errors"

// ErrChartDisposed is returned when drawing on a handle that was destroyed.
var ErrChartDisposed = errors.New("chart: handle is disposed")

type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
)

type ChartSeries struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

type ChartSpec struct {
	Kind   ChartKind     `json:"kind"`
	Title  string        `json:"title"`
	YLabel string        `json:"y_label"`
	Labels []string      `json:"labels"`
	Series []ChartSeries `json:"series"`
}

// ChartHandle is one constructed chart instance.
type ChartHandle interface {
	// Redraw replaces the chart data. Returns ErrChartDisposed after Destroy.
	Redraw(spec ChartSpec) error
	Destroy() error
}

// Contract for the charting engine.
type ChartEngine interface {
	NewChart(panel string, spec ChartSpec) (ChartHandle, error)
}
