package cache

import (
	"context"
	"database/sql"
	"delivery-planning-session/internal/domain"
	"delivery-planning-session/internal/platform/obs"
	"errors"
	"fmt"
	"time"
)

// SqlitePlanCache is a SQLite backed cache of planner results, keyed by
// request digest. Requires the plan_cache table from repositories.InitSchema.
type SqlitePlanCache struct {
	DB  *sql.DB
	TTL time.Duration
	now func() time.Time
}

func NewSqlitePlanCache(db *sql.DB, ttl time.Duration) *SqlitePlanCache {
	return &SqlitePlanCache{DB: db, TTL: ttl, now: time.Now}
}

func (s *SqlitePlanCache) Get(ctx context.Context, key string) (_ domain.PlanningResult, ok bool, err error) {
	defer obs.Time(ctx, "plan.cache.sqlite.Get")(&err)

	if s.DB == nil {
		return domain.PlanningResult{}, false, errors.New("plan cache: db is nil")
	}

	var raw string
	err = s.DB.QueryRowContext(ctx, `
	SELECT result
	FROM plan_cache
	WHERE cache_key = ?
		AND (expires_at = 0 OR expires_at > ?);
	`, key, s.now().Unix()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PlanningResult{}, false, nil
	}
	if err != nil {
		return domain.PlanningResult{}, false, fmt.Errorf("get plan cache: query plan_cache table: %w", err)
	}

	r, err := decodeResult([]byte(raw))
	if err != nil {
		return domain.PlanningResult{}, false, fmt.Errorf("get plan cache: %w", err)
	}
	return r, true, nil
}

func (s *SqlitePlanCache) Put(ctx context.Context, key string, result domain.PlanningResult) error {
	if s.DB == nil {
		return errors.New("plan cache: db is nil")
	}

	if key == "" {
		return errors.New("insert plan cache: key must not be empty")
	}

	b, err := encodeResult(result)
	if err != nil {
		return fmt.Errorf("insert plan cache: %w", err)
	}

	now := s.now().Unix()
	if _, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO plan_cache (
		cache_key,
		result,
		created_at,
		expires_at
	)
	VALUES (?, ?, ?, ?);
	`, key, string(b), now, expiresAt(now, int64(s.TTL/time.Second))); err != nil {
		return fmt.Errorf("insert plan cache key=%q: %w", key, err)
	}

	return nil
}
