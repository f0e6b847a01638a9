package geo

import (
	"math"
	"math/rand/v2"

	"branch-route-service/internal/domain"
)

// Kilometers per degree used to turn planar offsets into lat/lon deltas.
const (
	kmPerDegreeLat = 110.574
	kmPerDegreeLon = 111.320
)

// RandomPointsAround returns n points spread uniformly over a disc of
// radiusKm around center. The same rng state always yields the same points.
func RandomPointsAround(rng *rand.Rand, center domain.Coordinates, n int, radiusKm float64) []domain.Coordinates {
	if n <= 0 {
		return []domain.Coordinates{}
	}

	cosLat := math.Cos(toRadians(center.Lat))
	out := make([]domain.Coordinates, 0, n)
	for i := 0; i < n; i++ {
		// sqrt keeps the density uniform by area rather than by radius.
		r := radiusKm * math.Sqrt(rng.Float64())
		theta := rng.Float64() * 2 * math.Pi
		dy := r * math.Sin(theta)
		dx := r * math.Cos(theta)

		p := domain.Coordinates{Lat: center.Lat + dy/kmPerDegreeLat, Lon: center.Lon}
		if cosLat != 0 {
			p.Lon = center.Lon + dx/(kmPerDegreeLon*cosLat)
		}
		out = append(out, p)
	}
	return out
}
