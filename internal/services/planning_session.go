package services

import (
	"context"
	"delivery-planning-session/internal/domain"
	"delivery-planning-session/internal/platform/obs"
	"delivery-planning-session/internal/ports"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// ErrOptimizationFailed is what OptimizeAndWait reports for a failed request.
var ErrOptimizationFailed = errors.New(domain.PlanningFailedNotice)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusRequesting Status = "requesting"
)

type Outcome string

const (
	OutcomeNone      Outcome = "none"
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

type SessionConfig struct {
	Origin     domain.LatLng
	OriginName string
	Values     domain.ValueRange
}

// SessionDeps are the collaborators of a session. Notifier and Recorder
// are optional.
type SessionDeps struct {
	Planner  ports.Planner
	Canvas   ports.MapCanvas
	Charts   ports.ChartEngine
	Notifier ports.Notifier
	Recorder ports.RunRecorder
}

// OptimizeOptions are the form options read at request-build time.
type OptimizeOptions struct {
	Capacity   float64
	Algorithm  string
	CompareAll bool
}

// SessionView is a read-only snapshot for the input layer.
type SessionView struct {
	ID          string
	Items       []domain.Item
	TotalWeight float64
	Pending     *domain.LatLng
	Status      Status
	LastOutcome Outcome
	LastError   string
	Summary     *Summary
	Comparison  []ComparisonRow
	Charts      []string
}

// PlanningSession owns all mutable state of one delivery-planning session
// and the single in-flight planner request.
//
// All methods are serialized by one mutex, which gives the single logical
// thread of control the UI expects: user operations and the planner
// response handler never interleave. The planner call itself runs outside
// the lock, so item edits stay available while a request is in flight and
// only affect the next build.
type PlanningSession struct {
	id       string
	planner  ports.Planner
	notifier ports.Notifier
	recorder ports.RunRecorder

	mu         sync.Mutex
	picker     *GeolocationPicker
	registry   *ItemRegistry
	mapView    *MapView
	renderer   *ResultRenderer
	status     Status
	outcome    Outcome
	lastError  string
	lastResult *domain.PlanningResult
	inflight   chan struct{}
	cancel     context.CancelFunc
	generation uint64

	now func() time.Time
}

func NewPlanningSession(id string, cfg SessionConfig, deps SessionDeps) (*PlanningSession, error) {
	if deps.Planner == nil || deps.Canvas == nil || deps.Charts == nil {
		return nil, errors.New("new planning session: planner, canvas and charts are required")
	}

	picker := NewGeolocationPicker(deps.Canvas)
	s := &PlanningSession{
		id:       id,
		planner:  deps.Planner,
		notifier: deps.Notifier,
		recorder: deps.Recorder,
		picker:   picker,
		registry: NewItemRegistry(picker, cfg.Values),
		mapView:  NewMapView(deps.Canvas, cfg.Origin, cfg.OriginName),
		renderer: NewResultRenderer(deps.Charts),
		status:   StatusIdle,
		outcome:  OutcomeNone,
		now:      time.Now,
	}

	if err := s.mapView.RenderOrigin(); err != nil {
		return nil, fmt.Errorf("new planning session: %w", err)
	}

	return s, nil
}

func (s *PlanningSession) ID() string { return s.id }

func (s *PlanningSession) SelectLocation(at domain.LatLng) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.picker.Select(at)
}

func (s *PlanningSession) CancelSelection() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.picker.Cancel()
}

// AddItem adds the draft at the pending location and redraws the candidate
// markers. A returned validation error means nothing changed.
func (s *PlanningSession) AddItem(draft domain.ItemDraft) (domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.registry.Add(draft)
	if err != nil {
		return domain.Item{}, err
	}

	if err := s.mapView.RenderCandidates(s.registry.Items()); err != nil {
		return item, fmt.Errorf("add item %d: %w", item.ID, err)
	}

	return item, nil
}

// RemoveItem reports false when no item has the id.
func (s *PlanningSession) RemoveItem(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registry.Remove(id) {
		return false, nil
	}

	if err := s.mapView.RenderCandidates(s.registry.Items()); err != nil {
		return true, fmt.Errorf("remove item %d: %w", id, err)
	}

	return true, nil
}

// ImportItems adds several located drafts. Every draft is validated before
// the first one is added, so a bad entry leaves the session untouched.
func (s *PlanningSession) ImportItems(drafts []LocatedDraft) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range drafts {
		if err := d.Draft.Validate(s.registry.Values()); err != nil {
			return nil, fmt.Errorf("import items: entry %d: %w", i+1, err)
		}
		if !d.Location.Valid() {
			return nil, fmt.Errorf("import items: entry %d: %w", i+1, domain.ErrInvalidCoordinate)
		}
	}

	// The operator's own pending pick is put back afterwards.
	pending, hadPending := s.picker.Pending()

	items := make([]domain.Item, 0, len(drafts))
	for i, d := range drafts {
		if err := s.picker.Select(d.Location); err != nil {
			return items, fmt.Errorf("import items: entry %d: %w", i+1, err)
		}
		item, err := s.registry.Add(d.Draft)
		if err != nil {
			return items, fmt.Errorf("import items: entry %d: %w", i+1, err)
		}
		items = append(items, item)
	}

	if hadPending {
		if err := s.picker.Select(pending); err != nil {
			return items, fmt.Errorf("import items: restore selection: %w", err)
		}
	}

	if err := s.mapView.RenderCandidates(s.registry.Items()); err != nil {
		return items, fmt.Errorf("import items: %w", err)
	}

	return items, nil
}

// Optimize builds a request from the current items and submits it.
//
// Validation failures are returned synchronously and change nothing. While
// a request is already in flight the call is a no-op that returns the
// pending request's done channel; no second planner call is made. The
// returned channel is closed once the outcome has been applied.
//
// ctx bounds the planner call and must outlive the caller when Optimize is
// invoked from a short-lived request handler.
func (s *PlanningSession) Optimize(ctx context.Context, opts OptimizeOptions) (<-chan struct{}, error) {
	done, _, err := s.Submit(ctx, opts)
	return done, err
}

// Submit is Optimize that also reports whether this call started a new
// request (false when it joined the one already in flight).
func (s *PlanningSession) Submit(ctx context.Context, opts OptimizeOptions) (<-chan struct{}, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusRequesting {
		log.Printf("session=%s op=optimize ignored: request in flight", s.id)
		return s.inflight, false, nil
	}

	req, err := BuildRequest(s.registry.Items(), opts.Capacity, opts.Algorithm, opts.CompareAll)
	if err != nil {
		return nil, false, err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.generation++
	s.status = StatusRequesting
	s.inflight = done
	s.cancel = cancel
	s.notifyOptimizing(true)

	go s.run(ctx, cancel, s.generation, req, done)

	return done, true, nil
}

// OptimizeAndWait is Optimize followed by waiting for the outcome.
// It returns the planning failure, if any, of the request it waited on.
func (s *PlanningSession) OptimizeAndWait(ctx context.Context, opts OptimizeOptions) error {
	done, err := s.Optimize(ctx, opts)
	if err != nil {
		return err
	}

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == OutcomeFailed {
		return ErrOptimizationFailed
	}
	return nil
}

func (s *PlanningSession) run(
	ctx context.Context,
	cancel context.CancelFunc,
	gen uint64,
	req domain.PlanningRequest,
	done chan struct{},
) {
	defer close(done)
	defer cancel()

	ctx = obs.WithSessionID(ctx, s.id)
	started := s.now()

	result, err := s.plan(ctx, req)

	run, ok := s.finish(gen, req, result, err)
	if !ok || s.recorder == nil {
		return
	}

	run.StartedAt = started
	run.FinishedAt = s.now()
	if err := s.recorder.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		log.Printf("session=%s record run failed: %v", s.id, err)
	}
}

func (s *PlanningSession) plan(ctx context.Context, req domain.PlanningRequest) (_ domain.PlanningResult, err error) {
	defer obs.Time(ctx, "session.plan")(&err)

	return s.planner.Plan(ctx, req)
}

// finish applies the outcome of request gen. It reports false when the
// session was reset in the meantime and the response was discarded.
func (s *PlanningSession) finish(
	gen uint64,
	req domain.PlanningRequest,
	result domain.PlanningResult,
	planErr error,
) (ports.PlanningRun, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		log.Printf("session=%s op=optimize discarded stale response gen=%d", s.id, gen)
		return ports.PlanningRun{}, false
	}

	err := planErr
	if err == nil {
		if err = s.apply(&result); err != nil {
			s.restore()
		}
	}

	run := ports.PlanningRun{
		SessionID:  s.id,
		Algorithm:  string(req.Algorithm),
		CompareAll: req.CompareAll,
		ItemCount:  len(req.Items),
		Capacity:   req.Capacity,
	}

	if err != nil {
		log.Printf("session=%s op=optimize failed: %v", s.id, err)
		s.outcome = OutcomeFailed
		s.lastError = domain.PlanningFailedNotice
		if s.notifier != nil {
			s.notifier.Error(s.id, domain.PlanningFailedNotice)
		}
		run.Outcome = string(OutcomeFailed)
		run.ErrorMessage = err.Error()
	} else {
		s.outcome = OutcomeSucceeded
		s.lastError = ""
		s.lastResult = &result
		run.Outcome = string(OutcomeSucceeded)
		run.TotalDistanceKm = result.TotalDistanceKm
		run.TotalValue = result.TotalValue
	}

	s.status = StatusIdle
	s.inflight = nil
	s.cancel = nil
	s.notifyOptimizing(false)

	return run, true
}

// apply pushes a parsed result to the renderers. The route is drawn before
// markers are highlighted; the result panels follow.
func (s *PlanningSession) apply(result *domain.PlanningResult) error {
	if err := s.mapView.RenderRoute(result.Route); err != nil {
		return fmt.Errorf("apply result: %w", err)
	}
	if err := s.mapView.Highlight(result.SelectedIDs()); err != nil {
		return fmt.Errorf("apply result: %w", err)
	}
	if err := s.renderer.Render(result); err != nil {
		return fmt.Errorf("apply result: %w", err)
	}
	return nil
}

// restore redraws the last successful result after a failed apply, or
// clears the result output when there is none.
func (s *PlanningSession) restore() {
	var err error
	if s.lastResult != nil {
		err = s.apply(s.lastResult)
	} else {
		err = errors.Join(
			s.mapView.ClearRoute(),
			s.mapView.Highlight(nil),
			s.mapView.ResetView(),
			s.renderer.Clear(),
		)
	}
	if err != nil {
		log.Printf("session=%s op=optimize restore previous output failed: %v", s.id, err)
	}
}

// Reset returns the session to its initial state. An in-flight request is
// cancelled and its response, should it still arrive, is discarded.
func (s *PlanningSession) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	wasRequesting := s.status == StatusRequesting

	s.generation++
	s.status = StatusIdle
	s.outcome = OutcomeNone
	s.lastError = ""
	s.lastResult = nil
	s.inflight = nil
	s.cancel = nil
	s.registry.Clear()

	if wasRequesting {
		s.notifyOptimizing(false)
	}

	if err := s.picker.Cancel(); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	if err := s.mapView.Clear(); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	if err := s.renderer.Clear(); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}

	return nil
}

// Close cancels any in-flight request.
func (s *PlanningSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
}

func (s *PlanningSession) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *PlanningSession) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// LastResult returns the most recent successful result, or nil.
func (s *PlanningSession) LastResult() *domain.PlanningResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

func (s *PlanningSession) TotalWeight() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.TotalWeight()
}

func (s *PlanningSession) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := SessionView{
		ID:          s.id,
		Items:       s.registry.Items(),
		TotalWeight: s.registry.TotalWeight(),
		Status:      s.status,
		LastOutcome: s.outcome,
		LastError:   s.lastError,
		Summary:     s.renderer.Summary(),
		Comparison:  s.renderer.Comparison(),
		Charts:      s.renderer.ActiveCharts(),
	}
	if at, ok := s.picker.Pending(); ok {
		v.Pending = &at
	}
	return v
}

func (s *PlanningSession) notifyOptimizing(busy bool) {
	if s.notifier != nil {
		s.notifier.Optimizing(s.id, busy)
	}
}
