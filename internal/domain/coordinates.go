package domain

import "math"

// Immutable geographic coordinates (latitude, longitude) in degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// Valid reports whether the coordinate is finite and within WGS84 ranges.
func (c LatLng) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Return coordinates as [lon, lat] for GeoJSON compatibility.
func (c LatLng) CoordsToList() []float64 { return []float64{c.Lng, c.Lat} }
