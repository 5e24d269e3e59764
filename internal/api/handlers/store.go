package handlers

import (
	"delivery-planning-session/internal/adapters/canvas"
	"delivery-planning-session/internal/adapters/chart"
	"delivery-planning-session/internal/ports"
	"delivery-planning-session/internal/services"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

// SessionEntry is one live session with the headless canvas and chart
// engine it renders into.
type SessionEntry struct {
	Session *services.PlanningSession
	Canvas  *canvas.MemoryCanvas
	Charts  *chart.MemoryChartEngine
}

// SessionStore keeps sessions in memory. Nothing survives a restart.
type SessionStore struct {
	cfg      services.SessionConfig
	planner  ports.Planner
	notifier ports.Notifier
	recorder ports.RunRecorder

	mu      sync.RWMutex
	entries map[string]*SessionEntry
}

// NewSessionStore shares planner, notifier and recorder across sessions.
// notifier and recorder may be nil.
func NewSessionStore(
	cfg services.SessionConfig,
	planner ports.Planner,
	notifier ports.Notifier,
	recorder ports.RunRecorder,
) *SessionStore {
	return &SessionStore{
		cfg:      cfg,
		planner:  planner,
		notifier: notifier,
		recorder: recorder,
		entries:  make(map[string]*SessionEntry),
	}
}

func (s *SessionStore) Create() (string, *SessionEntry, error) {
	id := uuid.NewString()

	e := &SessionEntry{
		Canvas: canvas.NewMemoryCanvas(),
		Charts: chart.NewMemoryChartEngine(),
	}

	session, err := services.NewPlanningSession(id, s.cfg, services.SessionDeps{
		Planner:  s.planner,
		Canvas:   e.Canvas,
		Charts:   e.Charts,
		Notifier: s.notifier,
		Recorder: s.recorder,
	})
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}
	e.Session = session

	s.mu.Lock()
	s.entries[id] = e
	s.mu.Unlock()

	log.Printf("session=%s created", id)
	return id, e, nil
}

func (s *SessionStore) Get(id string) (*SessionEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// Delete closes and forgets a session. It reports false for unknown ids.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	e, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()

	if !ok {
		return false
	}
	e.Session.Close()
	log.Printf("session=%s deleted", id)
	return true
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close cancels every in-flight request.
func (s *SessionStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		e.Session.Close()
		delete(s.entries, id)
	}
}
