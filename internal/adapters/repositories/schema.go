package repositories

import (
	"database/sql"
	"delivery-planning-session/internal/platform/db"
	"errors"
	"fmt"
)

// InitSchema creates the plan cache and run history tables. driver is one
// of db.DriverSQLite or db.DriverPostgres.
func InitSchema(conn *sql.DB, driver string) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	var statements []string
	switch driver {
	case db.DriverSQLite:
		statements = sqliteSchema
	case db.DriverPostgres:
		statements = postgresSchema
	default:
		return fmt.Errorf("init schema: unsupported driver %q", driver)
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

var sqliteSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS plan_cache (
		cache_key TEXT PRIMARY KEY,
		result TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL DEFAULT 0
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS planning_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		algorithm TEXT NOT NULL,
		compare_all INTEGER NOT NULL,
		item_count INTEGER NOT NULL,
		capacity REAL NOT NULL,
		outcome TEXT NOT NULL,
		total_distance_km REAL NOT NULL,
		total_value REAL NOT NULL,
		error_message TEXT NOT NULL DEFAULT ''
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_planning_runs_finished_at
	ON planning_runs(finished_at);
	`,
}

var postgresSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS plan_cache (
		cache_key TEXT PRIMARY KEY,
		result TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		expires_at BIGINT NOT NULL DEFAULT 0
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS planning_runs (
		id BIGSERIAL PRIMARY KEY,
		session_id TEXT NOT NULL,
		started_at BIGINT NOT NULL,
		finished_at BIGINT NOT NULL,
		algorithm TEXT NOT NULL,
		compare_all BOOLEAN NOT NULL,
		item_count INTEGER NOT NULL,
		capacity DOUBLE PRECISION NOT NULL,
		outcome TEXT NOT NULL,
		total_distance_km DOUBLE PRECISION NOT NULL,
		total_value DOUBLE PRECISION NOT NULL,
		error_message TEXT NOT NULL DEFAULT ''
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_planning_runs_finished_at
	ON planning_runs(finished_at);
	`,
}
