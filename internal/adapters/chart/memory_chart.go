package chart

import (
	"delivery-planning-session/internal/ports"
	"fmt"
	"slices"
	"sort"
	"sync"
)

// Instance is the observable state of one chart handle.
type Instance struct {
	Panel     string          `json:"panel"`
	Spec      ports.ChartSpec `json:"spec"`
	Redraws   int             `json:"redraws"`
	Destroyed bool            `json:"destroyed"`
}

// MemoryChartEngine is a headless ports.ChartEngine. It remembers every
// handle it created, live or destroyed, so tests can check disposal.
type MemoryChartEngine struct {
	mu      sync.Mutex
	handles []*memoryHandle
}

func NewMemoryChartEngine() *MemoryChartEngine {
	return &MemoryChartEngine{}
}

func (e *MemoryChartEngine) NewChart(panel string, spec ports.ChartSpec) (ports.ChartHandle, error) {
	if panel == "" {
		return nil, fmt.Errorf("new chart: panel is empty")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	h := &memoryHandle{engine: e, inst: Instance{Panel: panel, Spec: cloneSpec(spec)}}
	e.handles = append(e.handles, h)
	return h, nil
}

// Live returns the charts not yet destroyed, sorted by panel.
func (e *MemoryChartEngine) Live() []Instance {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := []Instance{}
	for _, h := range e.handles {
		if !h.inst.Destroyed {
			out = append(out, copyInstance(h.inst))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Panel < out[j].Panel })
	return out
}

// Created counts every handle ever constructed.
func (e *MemoryChartEngine) Created() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handles)
}

// LiveOn counts undestroyed charts on one panel.
func (e *MemoryChartEngine) LiveOn(panel string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for _, h := range e.handles {
		if h.inst.Panel == panel && !h.inst.Destroyed {
			n++
		}
	}
	return n
}

type memoryHandle struct {
	engine *MemoryChartEngine
	inst   Instance
}

func (h *memoryHandle) Redraw(spec ports.ChartSpec) error {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()

	if h.inst.Destroyed {
		return ports.ErrChartDisposed
	}
	h.inst.Spec = cloneSpec(spec)
	h.inst.Redraws++
	return nil
}

func (h *memoryHandle) Destroy() error {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()

	if h.inst.Destroyed {
		return ports.ErrChartDisposed
	}
	h.inst.Destroyed = true
	return nil
}

func cloneSpec(s ports.ChartSpec) ports.ChartSpec {
	s.Labels = slices.Clone(s.Labels)
	series := make([]ports.ChartSeries, len(s.Series))
	for i, sr := range s.Series {
		series[i] = ports.ChartSeries{Label: sr.Label, Values: slices.Clone(sr.Values)}
	}
	s.Series = series
	return s
}

func copyInstance(in Instance) Instance {
	in.Spec = cloneSpec(in.Spec)
	return in
}
