package services

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"

	"branch-route-service/internal/domain"
	"branch-route-service/internal/geo"
)

// MockClients generates n synthetic clients scattered within radiusKm of
// center. The same seed always produces the same clients.
func MockClients(center domain.Coordinates, n int, radiusKm float64, seed uint64) []domain.Location {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	points := geo.RandomPointsAround(rng, center, n, radiusKm)

	out := make([]domain.Location, 0, len(points))
	for i, p := range points {
		out = append(out, domain.Location{
			ID:   fmt.Sprintf("MOCK-%03d", i+1),
			Name: fmt.Sprintf("Client %d", i+1),
			Lat:  geo.Round(p.Lat, 6),
			Lon:  geo.Round(p.Lon, 6),
		})
	}
	return out
}

// SeedFor derives a stable generator seed from an identifier.
func SeedFor(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}
