package ports

import (
	"context"
	"delivery-planning-session/internal/domain"
)

// Contract for the external route/selection optimizer.
type Planner interface {
	// Plan submits one request and returns the normalized result.
	// Failures are *domain.TransportError or *domain.ResponseShapeError.
	Plan(ctx context.Context, req domain.PlanningRequest) (domain.PlanningResult, error)
}
