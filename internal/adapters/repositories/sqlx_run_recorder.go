package repositories

import (
	"context"
	"database/sql"
	"delivery-planning-session/internal/platform/obs"
	"delivery-planning-session/internal/ports"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const defaultRunLimit = 50

// runRow is the storage shape of ports.PlanningRun. Timestamps are unix
// milliseconds so both drivers round-trip them identically.
type runRow struct {
	SessionID       string  `db:"session_id"`
	StartedAt       int64   `db:"started_at"`
	FinishedAt      int64   `db:"finished_at"`
	Algorithm       string  `db:"algorithm"`
	CompareAll      bool    `db:"compare_all"`
	ItemCount       int     `db:"item_count"`
	Capacity        float64 `db:"capacity"`
	Outcome         string  `db:"outcome"`
	TotalDistanceKm float64 `db:"total_distance_km"`
	TotalValue      float64 `db:"total_value"`
	ErrorMessage    string  `db:"error_message"`
}

// SQLRunRecorder implements ports.RunRecorder on SQLite or Postgres.
type SQLRunRecorder struct {
	db *sqlx.DB
}

// NewSQLRunRecorder wraps an open connection. driver selects the
// placeholder style and must match the driver conn was opened with.
func NewSQLRunRecorder(conn *sql.DB, driver string) *SQLRunRecorder {
	return &SQLRunRecorder{db: sqlx.NewDb(conn, driver)}
}

func (r *SQLRunRecorder) RecordRun(ctx context.Context, run ports.PlanningRun) (err error) {
	defer obs.Time(ctx, "runs.RecordRun")(&err)

	if run.SessionID == "" {
		return errors.New("record run: session id must not be empty")
	}

	const query = `
	INSERT INTO planning_runs (
		session_id, started_at, finished_at,
		algorithm, compare_all, item_count, capacity,
		outcome, total_distance_km, total_value, error_message
	) VALUES (
		:session_id, :started_at, :finished_at,
		:algorithm, :compare_all, :item_count, :capacity,
		:outcome, :total_distance_km, :total_value, :error_message
	)`

	if _, err := r.db.NamedExecContext(ctx, query, toRow(run)); err != nil {
		return fmt.Errorf("record run session=%s: %w", run.SessionID, err)
	}
	return nil
}

// ListRuns returns the most recently finished runs first.
func (r *SQLRunRecorder) ListRuns(ctx context.Context, limit int) ([]ports.PlanningRun, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}

	query := r.db.Rebind(`
	SELECT
		session_id, started_at, finished_at,
		algorithm, compare_all, item_count, capacity,
		outcome, total_distance_km, total_value, error_message
	FROM planning_runs
	ORDER BY finished_at DESC, id DESC
	LIMIT ?`)

	var rows []runRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	out := make([]ports.PlanningRun, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

func toRow(run ports.PlanningRun) runRow {
	return runRow{
		SessionID:       run.SessionID,
		StartedAt:       run.StartedAt.UnixMilli(),
		FinishedAt:      run.FinishedAt.UnixMilli(),
		Algorithm:       run.Algorithm,
		CompareAll:      run.CompareAll,
		ItemCount:       run.ItemCount,
		Capacity:        run.Capacity,
		Outcome:         run.Outcome,
		TotalDistanceKm: run.TotalDistanceKm,
		TotalValue:      run.TotalValue,
		ErrorMessage:    run.ErrorMessage,
	}
}

func fromRow(row runRow) ports.PlanningRun {
	return ports.PlanningRun{
		SessionID:       row.SessionID,
		StartedAt:       time.UnixMilli(row.StartedAt).UTC(),
		FinishedAt:      time.UnixMilli(row.FinishedAt).UTC(),
		Algorithm:       row.Algorithm,
		CompareAll:      row.CompareAll,
		ItemCount:       row.ItemCount,
		Capacity:        row.Capacity,
		Outcome:         row.Outcome,
		TotalDistanceKm: row.TotalDistanceKm,
		TotalValue:      row.TotalValue,
		ErrorMessage:    row.ErrorMessage,
	}
}
