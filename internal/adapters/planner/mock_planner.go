package planner

import (
	"context"
	"delivery-planning-session/internal/domain"
	"slices"
	"sync"
)

// Responder builds the scripted answer for one request.
type Responder func(req domain.PlanningRequest) (domain.PlanningResult, error)

// MockPlanner is an in-process planner for tests and offline runs. It
// records every request and can be held open until released.
type MockPlanner struct {
	mu       sync.Mutex
	respond  Responder
	requests []domain.PlanningRequest
	gate     chan struct{}
}

func NewMockPlanner(respond Responder) *MockPlanner {
	return &MockPlanner{respond: respond}
}

func (m *MockPlanner) Plan(ctx context.Context, req domain.PlanningRequest) (domain.PlanningResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	gate := m.gate
	respond := m.respond
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.PlanningResult{}, &domain.TransportError{Op: "mock", Err: ctx.Err()}
		}
	}

	return respond(req)
}

// Hold makes subsequent calls block until the returned release is called.
func (m *MockPlanner) Hold() (release func()) {
	gate := make(chan struct{})
	m.mu.Lock()
	m.gate = gate
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			if m.gate == gate {
				m.gate = nil
			}
			m.mu.Unlock()
			close(gate)
		})
	}
}

// SetResponder swaps the scripted answer.
func (m *MockPlanner) SetResponder(respond Responder) {
	m.mu.Lock()
	m.respond = respond
	m.mu.Unlock()
}

func (m *MockPlanner) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *MockPlanner) Requests() []domain.PlanningRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.requests)
}

// Fixed always answers with result.
func Fixed(result domain.PlanningResult) Responder {
	return func(domain.PlanningRequest) (domain.PlanningResult, error) {
		return result.Clone(), nil
	}
}

// Failing always answers with err.
func Failing(err error) Responder {
	return func(domain.PlanningRequest) (domain.PlanningResult, error) {
		return domain.PlanningResult{}, err
	}
}

// GreedyResponder fills capacity by value density, taking a fraction of the
// first item that no longer fits, and visits the chosen items by nearest
// neighbour from origin. Every algorithm gets the same route.
func GreedyResponder(origin domain.Stop) Responder {
	return func(req domain.PlanningRequest) (domain.PlanningResult, error) {
		order := slices.Clone(req.Items)
		slices.SortStableFunc(order, func(a, b domain.Item) int {
			da, db := a.Value/a.Weight, b.Value/b.Weight
			switch {
			case da > db:
				return -1
			case da < db:
				return 1
			}
			return 0
		})

		picked := make(map[int]float64, len(order))
		remaining := req.Capacity
		for _, it := range order {
			if remaining <= 0 {
				break
			}
			frac := 1.0
			if it.Weight > remaining {
				frac = remaining / it.Weight
			}
			picked[it.ID] = frac
			remaining -= it.Weight * frac
		}

		res := domain.PlanningResult{Algorithm: req.Algorithm}
		chosen := make([]domain.Item, 0, len(picked))
		for _, it := range req.Items {
			frac, ok := picked[it.ID]
			if !ok {
				continue
			}
			chosen = append(chosen, it)
			res.SelectedItems = append(res.SelectedItems, domain.SelectedItem{
				ItemID:   it.ID,
				Name:     it.Name,
				Weight:   it.Weight,
				Value:    it.Value,
				Location: it.Location,
				Fraction: frac,
			})
			res.TotalValue += it.Value * frac
		}
		res.Route, res.TotalDistanceKm = nearestNeighborRoute(origin, chosen)

		if req.CompareAll {
			res.Comparison = make(map[domain.Algorithm]float64, len(domain.Algorithms))
			for _, alg := range domain.Algorithms {
				res.Comparison[alg] = res.TotalDistanceKm
			}
		}

		return res, nil
	}
}
