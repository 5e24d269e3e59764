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

// SQLPlanCache is the Postgres variant of SqlitePlanCache.
type SQLPlanCache struct {
	DB  *sql.DB
	TTL time.Duration
	now func() time.Time
}

func NewSQLPlanCache(db *sql.DB, ttl time.Duration) *SQLPlanCache {
	return &SQLPlanCache{DB: db, TTL: ttl, now: time.Now}
}

func (s *SQLPlanCache) Get(ctx context.Context, key string) (_ domain.PlanningResult, ok bool, err error) {
	defer obs.Time(ctx, "plan.cache.sql.Get")(&err)

	if s.DB == nil {
		return domain.PlanningResult{}, false, errors.New("plan cache: db is nil")
	}

	var raw []byte
	err = s.DB.QueryRowContext(ctx, `
	SELECT result
	FROM plan_cache
	WHERE cache_key = $1
		AND (expires_at = 0 OR expires_at > $2);
	`, key, s.now().Unix()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PlanningResult{}, false, nil
	}
	if err != nil {
		return domain.PlanningResult{}, false, fmt.Errorf("get plan cache: query plan_cache table: %w", err)
	}

	r, err := decodeResult(raw)
	if err != nil {
		return domain.PlanningResult{}, false, fmt.Errorf("get plan cache: %w", err)
	}
	return r, true, nil
}

func (s *SQLPlanCache) Put(ctx context.Context, key string, result domain.PlanningResult) (err error) {
	defer obs.Time(ctx, "plan.cache.sql.Put")(&err)

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
	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO plan_cache (cache_key, result, created_at, expires_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (cache_key) DO UPDATE
	SET result = EXCLUDED.result,
		created_at = EXCLUDED.created_at,
		expires_at = EXCLUDED.expires_at;
	`, key, string(b), now, expiresAt(now, int64(s.TTL/time.Second)))
	if err != nil {
		return fmt.Errorf("insert plan cache key=%q: %w", key, err)
	}

	return nil
}
