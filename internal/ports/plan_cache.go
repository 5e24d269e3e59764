package ports

import (
	"context"
	"delivery-planning-session/internal/domain"
)

// PlanCache stores normalized planner results by request digest.
type PlanCache interface {
	// Get returns ok=false on a miss.
	Get(ctx context.Context, key string) (_ domain.PlanningResult, ok bool, err error)
	Put(ctx context.Context, key string, result domain.PlanningResult) error
}
