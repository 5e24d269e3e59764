package ports

import (
	"context"
	"time"
)

// PlanningRun is one completed optimize attempt, kept for operators.
type PlanningRun struct {
	SessionID       string
	StartedAt       time.Time
	FinishedAt      time.Time
	Algorithm       string
	CompareAll      bool
	ItemCount       int
	Capacity        float64
	Outcome         string
	TotalDistanceKm float64
	TotalValue      float64
	ErrorMessage    string
}

// Port: write-mostly history of planning runs.
type RunRecorder interface {
	RecordRun(ctx context.Context, run PlanningRun) error
	ListRuns(ctx context.Context, limit int) ([]PlanningRun, error)
}
