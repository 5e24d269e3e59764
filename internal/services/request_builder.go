package services

import (
	"delivery-planning-session/internal/domain"
	"math"
	"slices"
	"strconv"
	"strings"
)

// BuildRequest validates the form options against the current items and
// returns an independent snapshot for the planner.
//
// Checks run in order: empty registry, capacity, algorithm. Unknown
// algorithms are rejected here instead of being forwarded.
func BuildRequest(
	items []domain.Item,
	capacity float64,
	algorithm string,
	compareAll bool,
) (domain.PlanningRequest, error) {
	if len(items) == 0 {
		return domain.PlanningRequest{}, domain.ErrEmptyRegistry
	}

	if math.IsNaN(capacity) || math.IsInf(capacity, 0) || capacity <= 0 {
		return domain.PlanningRequest{}, domain.NewValidationError(
			domain.ReasonInvalidCapacity,
			"capacity must be a positive number, got %v", capacity,
		)
	}

	alg, err := domain.ParseAlgorithm(algorithm)
	if err != nil {
		return domain.PlanningRequest{}, err
	}

	// Item holds only value fields, so a slice copy is a deep copy.
	return domain.PlanningRequest{
		Items:      slices.Clone(items),
		Capacity:   capacity,
		Algorithm:  alg,
		CompareAll: compareAll,
	}, nil
}

// ParseCapacity converts form text to a capacity value.
func ParseCapacity(text string) (float64, error) {
	c, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, domain.NewValidationError(domain.ReasonInvalidCapacity, "capacity %q is not a number", text)
	}
	return c, nil
}
