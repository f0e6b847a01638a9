package services

import (
	"math"
	"slices"

	"branch-route-service/internal/domain"
	"branch-route-service/internal/geo"
)

// BuildTour plans a single-vehicle route using a greedy nearest-neighbor algorithm.
//
// Starting at origin, the closest unvisited client is chosen at each step; the
// route then returns to origin. Distances come from matrix when it holds the
// pair and from the haversine distance otherwise. Ties go to the client listed
// first, so the same input always yields the same route.
// It does not attempt global route optimization. DataSource is left for the caller.
func BuildTour(
	origin domain.Location,
	clients []domain.Location,
	matrix domain.DistanceMatrix,
	costPerKm float64,
) *domain.RouteResult {
	steps := make([]domain.RouteStep, 0, len(clients)+2)
	steps = append(steps, domain.RouteStep{
		Step: 1,
		ID:   origin.ID,
		Name: origin.Name,
		Lat:  origin.Lat,
		Lon:  origin.Lon,
		Kind: domain.StepOrigin,
	})

	unvisited := slices.Clone(clients)
	current := origin
	total := 0.0

	for len(unvisited) > 0 {
		bestIdx := -1
		bestDist := math.Inf(1)

		// Select next stop by minimum distance (greedy step). Strict comparison
		// keeps the earliest candidate on ties.
		for i, candidate := range unvisited {
			d := legDistance(matrix, current, candidate)
			if d < bestDist {
				bestDist = d
				bestIdx = i
			}
		}

		next := unvisited[bestIdx]
		total += bestDist
		steps = append(steps, domain.RouteStep{
			Step:                   len(steps) + 1,
			ID:                     next.ID,
			Name:                   next.Name,
			Lat:                    next.Lat,
			Lon:                    next.Lon,
			DistanceFromPreviousKm: geo.Round(bestDist, 2),
			Kind:                   domain.StepClient,
		})

		unvisited = slices.Delete(unvisited, bestIdx, bestIdx+1)
		current = next
	}

	back := legDistance(matrix, current, origin)
	total += back
	steps = append(steps, domain.RouteStep{
		Step:                   len(steps) + 1,
		ID:                     domain.ReturnStepID,
		Name:                   domain.ReturnStepName,
		Lat:                    origin.Lat,
		Lon:                    origin.Lon,
		DistanceFromPreviousKm: geo.Round(back, 2),
		Kind:                   domain.StepReturn,
	})

	return &domain.RouteResult{
		Steps:           steps,
		TotalDistanceKm: geo.Round(total, 2),
		ClientCount:     len(clients),
		EstimatedCost:   int64(math.Round(total * costPerKm)),
	}
}

func legDistance(matrix domain.DistanceMatrix, from, to domain.Location) float64 {
	if km, ok := matrix.Lookup(from.ID, to.ID); ok {
		return km
	}
	return geo.Haversine(from.Coordinates(), to.Coordinates())
}
