package planner

import (
	"delivery-planning-session/internal/domain"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// nearestNeighborRoute orders stops with a greedy nearest-neighbour walk
// from origin over great-circle distance, returning to origin at the end.
// Ties go to the lower item id so the order is deterministic.
func nearestNeighborRoute(origin domain.Stop, items []domain.Item) ([]domain.Stop, float64) {
	route := make([]domain.Stop, 0, len(items)+2)
	route = append(route, origin)

	remaining := make(map[int]domain.Item, len(items))
	for _, it := range items {
		remaining[it.ID] = it
	}

	current := origin.Location
	totalKm := 0.0

	for len(remaining) > 0 {
		bestID := 0
		best := math.Inf(1)

		// Select next stop by minimum leg distance (greedy step).
		for id, it := range remaining {
			d := haversineKm(current, it.Location)
			if d < best || (d == best && id < bestID) {
				best = d
				bestID = id
			}
		}

		next := remaining[bestID]
		route = append(route, domain.Stop{Location: next.Location, Name: next.Name})
		totalKm += best
		current = next.Location
		delete(remaining, bestID)
	}

	totalKm += haversineKm(current, origin.Location)
	route = append(route, origin)

	return route, totalKm
}

func haversineKm(a, b domain.LatLng) float64 {
	return geo.DistanceHaversine(orb.Point{a.Lng, a.Lat}, orb.Point{b.Lng, b.Lat}) / 1000
}
