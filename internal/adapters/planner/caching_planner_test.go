package planner

import (
	"context"
	"delivery-planning-session/internal/domain"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu     sync.Mutex
	m      map[string]domain.PlanningResult
	getErr error
}

func newMapCache() *mapCache { return &mapCache{m: map[string]domain.PlanningResult{}} }

func (c *mapCache) Get(_ context.Context, key string) (domain.PlanningResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return domain.PlanningResult{}, false, c.getErr
	}
	r, ok := c.m[key]
	return r, ok, nil
}

func (c *mapCache) Put(_ context.Context, key string, r domain.PlanningResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = r
	return nil
}

func fixedResult() domain.PlanningResult {
	return domain.PlanningResult{
		Algorithm:       domain.AlgorithmTSP,
		Route:           []domain.Stop{{Location: domain.LatLng{Lat: 1, Lng: 2}}},
		TotalDistanceKm: 7,
	}
}

func TestCachingPlannerHitSkipsUpstream(t *testing.T) {
	mock := NewMockPlanner(Fixed(fixedResult()))
	cp := NewCachingPlanner(mock, newMapCache(), MedicinesDialect)

	for i := 0; i < 3; i++ {
		res, err := cp.Plan(context.Background(), sampleRequest())
		require.NoError(t, err)
		assert.Equal(t, 7.0, res.TotalDistanceKm)
	}
	assert.Equal(t, 1, mock.Calls())
}

func TestCachingPlannerDistinctRequests(t *testing.T) {
	mock := NewMockPlanner(Fixed(fixedResult()))
	cp := NewCachingPlanner(mock, newMapCache(), MedicinesDialect)

	req := sampleRequest()
	_, err := cp.Plan(context.Background(), req)
	require.NoError(t, err)

	req.Capacity = 9
	_, err = cp.Plan(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, mock.Calls())
}

func TestCachingPlannerCacheFailureFallsThrough(t *testing.T) {
	cache := newMapCache()
	cache.getErr = errors.New("connection refused")
	mock := NewMockPlanner(Fixed(fixedResult()))

	res, err := NewCachingPlanner(mock, cache, MedicinesDialect).Plan(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, 7.0, res.TotalDistanceKm)
	assert.Equal(t, 1, mock.Calls())
}

func TestCachingPlannerDoesNotCacheFailures(t *testing.T) {
	mock := NewMockPlanner(Failing(&domain.TransportError{Op: "mock", StatusCode: 503}))
	cache := newMapCache()
	cp := NewCachingPlanner(mock, cache, MedicinesDialect)

	_, err := cp.Plan(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Empty(t, cache.m)
}

func TestRequestKeyStable(t *testing.T) {
	a, err := RequestKey(MedicinesDialect, sampleRequest())
	require.NoError(t, err)
	b, err := RequestKey(MedicinesDialect, sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := RequestKey(PackagesDialect, sampleRequest())
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGreedyResponderTakesFraction(t *testing.T) {
	origin := domain.Stop{Location: domain.LatLng{Lat: 11.0292, Lng: 77.0263}, Name: "Origin"}
	res, err := GreedyResponder(origin)(sampleRequest())
	require.NoError(t, err)

	// A has the better density (25/kg) and fits, B fills the remaining 2 of 3 kg.
	require.Len(t, res.SelectedItems, 2)
	assert.Equal(t, 1.0, res.SelectedItems[0].Fraction)
	assert.InDelta(t, 2.0/3.0, res.SelectedItems[1].Fraction, 1e-9)
	assert.InDelta(t, 70.0, res.TotalValue, 1e-9)
	assert.Len(t, res.Route, 4)
	assert.Greater(t, res.TotalDistanceKm, 0.0)
}

func TestNearestNeighborRoute(t *testing.T) {
	origin := domain.Stop{Location: domain.LatLng{Lat: 0, Lng: 0}, Name: "Origin"}
	items := []domain.Item{
		{ID: 1, Name: "far", Location: domain.LatLng{Lat: 0, Lng: 3}},
		{ID: 2, Name: "near", Location: domain.LatLng{Lat: 0, Lng: 1}},
		{ID: 3, Name: "mid", Location: domain.LatLng{Lat: 0, Lng: 2}},
	}

	route, km := nearestNeighborRoute(origin, items)

	names := make([]string, 0, len(route))
	for _, s := range route {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Origin", "near", "mid", "far", "Origin"}, names)
	// Six degrees of longitude along the equator.
	assert.InDelta(t, 667.9, km, 0.5)
}

func TestCachingPlannerCancelledCallerDoesNotFailSharedCall(t *testing.T) {
	mock := NewMockPlanner(Fixed(fixedResult()))
	release := mock.Hold()
	cp := NewCachingPlanner(mock, newMapCache(), MedicinesDialect, WithCallTimeout(5*time.Second))

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := cp.Plan(ctxA, sampleRequest())
		errA <- err
	}()
	require.Eventually(t, func() bool { return mock.Calls() == 1 }, time.Second, time.Millisecond)

	type outcome struct {
		res domain.PlanningResult
		err error
	}
	outB := make(chan outcome, 1)
	go func() {
		res, err := cp.Plan(context.Background(), sampleRequest())
		outB <- outcome{res, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		var te *domain.TransportError
		require.ErrorAs(t, err, &te)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	release()
	select {
	case o := <-outB:
		require.NoError(t, o.err)
		assert.Equal(t, 7.0, o.res.TotalDistanceKm)
	case <-time.After(time.Second):
		t.Fatal("second caller did not finish")
	}
	assert.Equal(t, 1, mock.Calls())
}

func TestCachingPlannerSharedCallIsBounded(t *testing.T) {
	mock := NewMockPlanner(Fixed(fixedResult()))
	defer mock.Hold()()
	cp := NewCachingPlanner(mock, newMapCache(), MedicinesDialect, WithCallTimeout(20*time.Millisecond))

	_, err := cp.Plan(context.Background(), sampleRequest())
	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
