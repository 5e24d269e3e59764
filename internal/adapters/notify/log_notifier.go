package notify

import (
	"log"
	"slices"
	"sync"
)

// LogNotifier writes session notices to the standard logger.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (LogNotifier) Optimizing(sessionID string, busy bool) {
	if busy {
		log.Printf("session=%s notice=optimizing", sessionID)
		return
	}
	log.Printf("session=%s notice=ready", sessionID)
}

func (LogNotifier) Error(sessionID, msg string) {
	log.Printf("session=%s notice=error msg=%q", sessionID, msg)
}

type Event struct {
	SessionID string
	Busy      *bool
	Error     string
}

// Recorder keeps every notice in order. Used by tests and the CLI.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Optimizing(sessionID string, busy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{SessionID: sessionID, Busy: &busy})
}

func (r *Recorder) Error(sessionID, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{SessionID: sessionID, Error: msg})
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Errors returns only the error notices.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, e := range r.events {
		if e.Error != "" {
			out = append(out, e.Error)
		}
	}
	return out
}
