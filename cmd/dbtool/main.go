package main

import (
	"context"
	"database/sql"
	"delivery-planning-session/internal/adapters/repositories"
	"delivery-planning-session/internal/config"
	"delivery-planning-session/internal/platform/db"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
)

// dbtool creates the plan cache and run history tables, and can list
// recent runs.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	sqlitePath := flag.String("sqlite", "", "initialize this SQLite file instead of DATABASE_URL")
	listRuns := flag.Int("runs", 0, "print the N most recent planning runs after init")
	flag.Parse()

	driver := db.DriverPostgres
	databaseURL := config.Get("DATABASE_URL", "")

	var (
		conn *sql.DB
		err  error
	)
	switch {
	case *sqlitePath != "":
		driver = db.DriverSQLite
		conn, err = db.OpenSQLite(*sqlitePath)
	case databaseURL != "":
		conn, err = db.Open(databaseURL)
	default:
		log.Fatal("DATABASE_URL or -sqlite is required")
	}
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(conn, driver); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if *listRuns > 0 {
		runs, err := repositories.NewSQLRunRecorder(conn, driver).ListRuns(context.Background(), *listRuns)
		if err != nil {
			log.Fatalf("list runs: %v", err)
		}
		for _, r := range runs {
			log.Printf(
				"session=%s finished=%s algorithm=%s items=%d outcome=%s distance_km=%.2f value=%.2f",
				r.SessionID, r.FinishedAt.Format(time.RFC3339), r.Algorithm, r.ItemCount,
				r.Outcome, r.TotalDistanceKm, r.TotalValue,
			)
		}
	}
}
