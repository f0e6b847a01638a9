// Package geo provides great-circle distance helpers used as the geometric
// fallback whenever road distances are unavailable.
package geo

import (
	"math"

	"branch-route-service/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance between a and b in kilometers.
// The squared half-chord term is clamped into [0,1] so coincident and
// antipodal points never produce NaN.
func Haversine(a, b domain.Coordinates) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// Penalized approximates a road distance from the straight-line distance,
// rounded to 6 decimals so fallback cells are reproducible.
func Penalized(a, b domain.Coordinates, tortuosity float64) float64 {
	return Round(Haversine(a, b)*tortuosity, 6)
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }
