package domain

import "strings"

// Algorithm is the closed set of route strategies the planner understands.
type Algorithm string

const (
	AlgorithmTSP     Algorithm = "tsp"
	AlgorithmPrim    Algorithm = "prim"
	AlgorithmKruskal Algorithm = "kruskal"
)

// Algorithms lists every algorithm in display order.
var Algorithms = []Algorithm{AlgorithmTSP, AlgorithmPrim, AlgorithmKruskal}

// ParseAlgorithm accepts canonical names case-insensitively plus the
// "prims"/"kruskals" spellings used by some planner deployments.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tsp":
		return AlgorithmTSP, nil
	case "prim", "prims":
		return AlgorithmPrim, nil
	case "kruskal", "kruskals":
		return AlgorithmKruskal, nil
	}
	return "", NewValidationError(ReasonUnknownAlgorithm, "unknown algorithm %q", s)
}

func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmTSP, AlgorithmPrim, AlgorithmKruskal:
		return true
	}
	return false
}

func (a Algorithm) FullName() string {
	switch a {
	case AlgorithmTSP:
		return "Travelling Salesman Problem (TSP)"
	case AlgorithmPrim:
		return "Prim's Algorithm"
	case AlgorithmKruskal:
		return "Kruskal's Algorithm"
	}
	return string(a)
}

// ShortName is the chart label.
func (a Algorithm) ShortName() string {
	switch a {
	case AlgorithmTSP:
		return "TSP"
	case AlgorithmPrim:
		return "Prim's"
	case AlgorithmKruskal:
		return "Kruskal's"
	}
	return string(a)
}
