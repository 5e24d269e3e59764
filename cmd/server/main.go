package main

import (
	"context"
	"database/sql"
	"delivery-planning-session/internal/adapters/cache"
	"delivery-planning-session/internal/adapters/notify"
	"delivery-planning-session/internal/adapters/planner"
	"delivery-planning-session/internal/adapters/repositories"
	"delivery-planning-session/internal/api"
	"delivery-planning-session/internal/api/handlers"
	"delivery-planning-session/internal/config"
	"delivery-planning-session/internal/platform/db"
	"delivery-planning-session/internal/ports"
	"delivery-planning-session/internal/services"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (planner, caches, run history) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	conn, driver, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if conn != nil {
		defer conn.Close()
	}

	base, dialect, err := planner.FromConfig(cfg)
	if err != nil {
		log.Fatal(err)
	}

	var recorder ports.RunRecorder
	var planCache ports.PlanCache
	if conn != nil {
		recorder = repositories.NewSQLRunRecorder(conn, driver)
		planCache = sqlPlanCache(conn, driver, cfg.CacheTTL)
	}

	// Redis, when configured, takes over plan caching so results are shared across instances.
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		planCache = cache.NewRedisPlanCache(rdb, cfg.CacheTTL)
		log.Printf("plan cache: redis addr=%s ttl=%s", cfg.RedisAddr, cfg.CacheTTL)
	}

	// budget is the worst case for one planner call, retries included.
	budget := planner.CallBudget(base, cfg.PlannerTimeout)

	var p ports.Planner = base
	if planCache != nil {
		p = planner.NewCachingPlanner(base, planCache, dialect, planner.WithCallTimeout(budget))
	}

	store := handlers.NewSessionStore(services.SessionConfig{
		Origin:     cfg.Origin,
		OriginName: cfg.OriginName,
		Values:     cfg.Values,
	}, p, notify.NewLogNotifier(), recorder)
	defer store.Close()

	router := api.NewRouter(store, recorder, handlers.OptimizeDefaults{
		Capacity:  cfg.DefaultCapacity,
		Algorithm: cfg.DefaultAlgorithm,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      writeTimeout(budget),
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// openStore opens Postgres when DATABASE_URL is set, else SQLite when
// DB_PATH is set. Both unset runs without history or persistent cache.
func openStore(cfg config.Config) (*sql.DB, string, error) {
	switch {
	case cfg.DatabaseURL != "":
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, "", err
		}
		if err := repositories.InitSchema(conn, db.DriverPostgres); err != nil {
			conn.Close()
			return nil, "", err
		}
		return conn, db.DriverPostgres, nil

	case cfg.DBPath != "":
		conn, err := db.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, "", err
		}
		if err := repositories.InitSchema(conn, db.DriverSQLite); err != nil {
			conn.Close()
			return nil, "", err
		}
		return conn, db.DriverSQLite, nil
	}

	log.Println("No DATABASE_URL or DB_PATH set (run history and plan cache disabled)")
	return nil, "", nil
}

// writeTimeout leaves room for a ?wait=true optimize that uses the whole
// planner budget, plus rendering and encoding the view.
func writeTimeout(plannerBudget time.Duration) time.Duration {
	return plannerBudget + 10*time.Second
}

func sqlPlanCache(conn *sql.DB, driver string, ttl time.Duration) ports.PlanCache {
	if driver == db.DriverPostgres {
		return cache.NewSQLPlanCache(conn, ttl)
	}
	return cache.NewSqlitePlanCache(conn, ttl)
}
