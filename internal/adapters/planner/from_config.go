package planner

import (
	"delivery-planning-session/internal/config"
	"delivery-planning-session/internal/domain"
	"delivery-planning-session/internal/ports"
	"fmt"
	"log"
)

// MockURL selects the in-process planner instead of a remote endpoint.
const MockURL = "mock"

// FromConfig builds the configured planner and the wire dialect it speaks.
func FromConfig(cfg config.Config) (ports.Planner, Dialect, error) {
	dialect, err := DialectByName(cfg.PlannerDialect)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("planner from config: %w", err)
	}

	if cfg.PlannerURL == MockURL {
		log.Printf("planner: using in-process mock planner")
		origin := domain.Stop{Location: cfg.Origin, Name: cfg.OriginName}
		return NewMockPlanner(GreedyResponder(origin)), dialect, nil
	}

	p, err := NewHTTPPlanner(cfg.PlannerURL, dialect, cfg.PlannerTimeout)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("planner from config: %w", err)
	}
	log.Printf("planner: endpoint=%s dialect=%s timeout=%s", cfg.PlannerURL, dialect.Name, cfg.PlannerTimeout)
	return p, dialect, nil
}
