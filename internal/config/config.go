package config

import (
	"delivery-planning-session/internal/domain"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration, read from the environment
// (optionally populated from a .env file by the commands).
type Config struct {
	Port string

	PlannerURL     string
	PlannerDialect string
	PlannerTimeout time.Duration

	Origin     domain.LatLng
	OriginName string
	Values     domain.ValueRange

	DefaultCapacity  float64
	DefaultAlgorithm string

	DBPath      string
	DatabaseURL string
	RedisAddr   string
	CacheTTL    time.Duration
}

// Origin defaults to CIT, Coimbatore.
const (
	defaultOriginLat = 11.0292
	defaultOriginLng = 77.0263
)

func Load() Config {
	dialect := Get("PLANNER_DIALECT", "medicines")
	values := defaultValues(dialect)

	return Config{
		Port:             Get("PORT", "8080"),
		PlannerURL:       Get("PLANNER_URL", "http://localhost:5000/optimize"),
		PlannerDialect:   dialect,
		PlannerTimeout:   GetDuration("PLANNER_TIMEOUT", 30*time.Second),
		Origin:           domain.LatLng{Lat: GetFloat("ORIGIN_LAT", defaultOriginLat), Lng: GetFloat("ORIGIN_LNG", defaultOriginLng)},
		OriginName:       Get("ORIGIN_NAME", "CIT Coimbatore (Origin)"),
		Values:           domain.ValueRange{Min: GetFloat("VALUE_MIN", values.Min), Max: GetFloat("VALUE_MAX", values.Max)},
		DefaultCapacity:  GetFloat("DEFAULT_CAPACITY", 10),
		DefaultAlgorithm: Get("DEFAULT_ALGORITHM", string(domain.AlgorithmTSP)),
		DBPath:           Get("DB_PATH", ""),
		DatabaseURL:      Get("DATABASE_URL", ""),
		RedisAddr:        Get("REDIS_ADDR", ""),
		CacheTTL:         GetDuration("CACHE_TTL", time.Hour),
	}
}

// defaultValues is the item value range each planner deployment accepts.
func defaultValues(dialect string) domain.ValueRange {
	if strings.EqualFold(strings.TrimSpace(dialect), "packages") {
		return domain.PackageValueRange
	}
	return domain.MedicineValueRange
}

// Get returns the trimmed environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetFloat(key string, fallback float64) float64 {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config: %s=%q is not a number, using %v", key, raw, fallback)
		return fallback
	}
	return f
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config: %s=%q is not a duration, using %v", key, raw, fallback)
		return fallback
	}
	return d
}
