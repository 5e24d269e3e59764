package planner

import (
	"context"
	"delivery-planning-session/internal/domain"
	"delivery-planning-session/internal/ports"
	"fmt"
	"log"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

// CachingPlanner decorates a Planner with a result cache. Identical
// concurrent requests share one upstream call. Cache failures are logged
// and the request falls through to the upstream planner.
//
// The shared upstream call is detached from every caller's cancellation so
// one caller giving up never fails the others; it is bounded by the call
// timeout instead. Each caller still stops waiting when its own ctx ends.
type CachingPlanner struct {
	next        ports.Planner
	cache       ports.PlanCache
	dialect     Dialect
	callTimeout time.Duration
	group       singleflight.Group
}

type CacheOption func(*CachingPlanner)

// WithCallTimeout bounds the shared upstream call. Zero leaves it unbounded.
func WithCallTimeout(d time.Duration) CacheOption {
	return func(c *CachingPlanner) { c.callTimeout = d }
}

func NewCachingPlanner(next ports.Planner, cache ports.PlanCache, dialect Dialect, opts ...CacheOption) *CachingPlanner {
	c := &CachingPlanner{next: next, cache: cache, dialect: dialect}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CallBudget is the longest p may take for one call: its own Budget when it
// reports one, fallback otherwise.
func CallBudget(p ports.Planner, fallback time.Duration) time.Duration {
	if b, ok := p.(interface{ Budget() time.Duration }); ok {
		return b.Budget()
	}
	return fallback
}

// RequestKey digests the request exactly as it would be sent on the wire.
func RequestKey(d Dialect, req domain.PlanningRequest) (string, error) {
	payload, err := d.EncodeRequest(req)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("plan:%s:%016x", d.Name, xxhash.Sum64(payload)), nil
}

func (c *CachingPlanner) Plan(ctx context.Context, req domain.PlanningRequest) (domain.PlanningResult, error) {
	key, err := RequestKey(c.dialect, req)
	if err != nil {
		return domain.PlanningResult{}, fmt.Errorf("plan: %w", err)
	}

	if res, ok, err := c.cache.Get(ctx, key); err != nil {
		log.Printf("plan cache: get key=%s err=%v", key, err)
	} else if ok {
		log.Printf("plan cache: hit key=%s", key)
		return res, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx), key, req)
	})

	select {
	case <-ctx.Done():
		return domain.PlanningResult{}, &domain.TransportError{Op: "plan", Err: ctx.Err()}
	case r := <-ch:
		if r.Err != nil {
			return domain.PlanningResult{}, r.Err
		}
		res := r.Val.(domain.PlanningResult)
		if r.Shared {
			res = res.Clone()
		}
		return res, nil
	}
}

func (c *CachingPlanner) fetch(ctx context.Context, key string, req domain.PlanningRequest) (domain.PlanningResult, error) {
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	res, err := c.next.Plan(ctx, req)
	if err != nil {
		return domain.PlanningResult{}, err
	}
	if err := c.cache.Put(ctx, key, res); err != nil {
		log.Printf("plan cache: put key=%s err=%v", key, err)
	}
	return res, nil
}
