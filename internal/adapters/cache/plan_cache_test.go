package cache

import (
	"context"
	"delivery-planning-session/internal/adapters/repositories"
	"delivery-planning-session/internal/domain"
	"delivery-planning-session/internal/platform/db"
	"delivery-planning-session/internal/ports"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.PlanCache = (*RedisPlanCache)(nil)
	_ ports.PlanCache = (*SqlitePlanCache)(nil)
	_ ports.PlanCache = (*SQLPlanCache)(nil)
)

func sampleResult() domain.PlanningResult {
	return domain.PlanningResult{
		Algorithm: domain.AlgorithmTSP,
		Route: []domain.Stop{
			{Location: domain.LatLng{Lat: 11.0292, Lng: 77.0263}, Name: "Origin"},
			{Location: domain.LatLng{Lat: 11.1, Lng: 77.1}, Name: "A"},
		},
		TotalDistanceKm: 12.5,
		SelectedItems: []domain.SelectedItem{
			{ItemID: 1, Name: "A", Weight: 2, Value: 50, Location: domain.LatLng{Lat: 11.1, Lng: 77.1}, Fraction: 1},
		},
		TotalValue: 50,
		Comparison: map[domain.Algorithm]float64{domain.AlgorithmTSP: 12.5, domain.AlgorithmPrim: 14},
	}
}

func TestRedisPlanCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisPlanCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "plan:x")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "plan:x", sampleResult()))

	got, ok, err := c.Get(ctx, "plan:x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleResult(), got)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "plan:x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisPlanCacheUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	c := NewRedisPlanCache(client, time.Minute)
	_, _, err := c.Get(context.Background(), "plan:x")
	assert.Error(t, err)
}

func TestSqlitePlanCache(t *testing.T) {
	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, repositories.InitSchema(conn, db.DriverSQLite))

	now := time.Unix(1_700_000_000, 0)
	c := NewSqlitePlanCache(conn, time.Hour)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "plan:y", sampleResult()))

	got, ok, err := c.Get(ctx, "plan:y")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleResult(), got)

	// Overwrite keeps a single row.
	updated := sampleResult()
	updated.TotalDistanceKm = 9
	require.NoError(t, c.Put(ctx, "plan:y", updated))
	got, _, err = c.Get(ctx, "plan:y")
	require.NoError(t, err)
	assert.Equal(t, 9.0, got.TotalDistanceKm)

	now = now.Add(2 * time.Hour)
	_, ok, err = c.Get(ctx, "plan:y")
	require.NoError(t, err)
	assert.False(t, ok, "expired entries are misses")

	assert.Error(t, c.Put(ctx, "", sampleResult()))
}

func TestSqlitePlanCacheNoTTL(t *testing.T) {
	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, repositories.InitSchema(conn, db.DriverSQLite))

	c := NewSqlitePlanCache(conn, 0)
	require.NoError(t, c.Put(context.Background(), "k", sampleResult()))

	c.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }
	_, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
