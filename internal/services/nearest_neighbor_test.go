package services

import (
	"fmt"
	"testing"

	"branch-route-service/internal/domain"
	"branch-route-service/internal/geo"

	"github.com/stretchr/testify/require"
)

func stepIDs(r *domain.RouteResult) []string {
	ids := make([]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestBuildTourCollinearClients(t *testing.T) {
	origin := loc("B1", 0, 0)
	far := loc("C2", 0, 2)
	near := loc("C1", 0, 1)

	r := BuildTour(origin, []domain.Location{far, near}, nil, 5.5)

	require.Equal(t, []string{"B1", "C1", "C2", domain.ReturnStepID}, stepIDs(r))
	require.Equal(t, 2, r.ClientCount)

	oneDeg := geo.Haversine(origin.Coordinates(), near.Coordinates())
	require.InDelta(t, 4*oneDeg, r.TotalDistanceKm, 0.01)
	require.InDelta(t, 2*geo.Haversine(origin.Coordinates(), far.Coordinates()), r.TotalDistanceKm, 0.01)
}

func TestBuildTourNoClients(t *testing.T) {
	origin := loc("B1", 23.34, 85.31)

	r := BuildTour(origin, nil, domain.NewDistanceMatrix([]string{"B1"}), 5.5)

	require.Len(t, r.Steps, 2)
	require.Equal(t, domain.StepOrigin, r.Steps[0].Kind)
	require.Equal(t, domain.StepReturn, r.Steps[1].Kind)
	require.Equal(t, domain.ReturnStepName, r.Steps[1].Name)
	require.Equal(t, origin.Lat, r.Steps[1].Lat)
	require.Equal(t, origin.Lon, r.Steps[1].Lon)
	require.Equal(t, 0.0, r.TotalDistanceKm)
	require.Equal(t, int64(0), r.EstimatedCost)
	require.Equal(t, 0, r.ClientCount)
}

func TestBuildTourUsesMatrixDistances(t *testing.T) {
	origin := loc("B", 0, 0)
	a := loc("A", 0, 1)
	c := loc("C", 0, 2)

	// Directional matrix that makes C closer than A despite geometry.
	m := domain.NewDistanceMatrix([]string{"B", "A", "C"})
	m.Set("B", "A", 10)
	m.Set("B", "C", 4)
	m.Set("C", "A", 3)
	m.Set("A", "B", 7)
	m.Set("A", "C", 99)
	m.Set("C", "B", 99)

	r := BuildTour(origin, []domain.Location{a, c}, m, 2)

	require.Equal(t, []string{"B", "C", "A", domain.ReturnStepID}, stepIDs(r))
	require.Equal(t, []float64{0, 4, 3, 7}, []float64{
		r.Steps[0].DistanceFromPreviousKm,
		r.Steps[1].DistanceFromPreviousKm,
		r.Steps[2].DistanceFromPreviousKm,
		r.Steps[3].DistanceFromPreviousKm,
	})
	require.Equal(t, 14.0, r.TotalDistanceKm)
	require.Equal(t, int64(28), r.EstimatedCost)
}

func TestBuildTourTieGoesToFirstListed(t *testing.T) {
	origin := loc("B", 0, 0)
	east := loc("E", 0, 0.5)
	west := loc("W", 0, -0.5)

	r := BuildTour(origin, []domain.Location{west, east}, nil, 1)
	require.Equal(t, "W", r.Steps[1].ID)

	r = BuildTour(origin, []domain.Location{east, west}, nil, 1)
	require.Equal(t, "E", r.Steps[1].ID)
}

func TestBuildTourVisitsEveryClientOnce(t *testing.T) {
	origin := loc("B", 23.3441, 85.3096)
	var clients []domain.Location
	for i := 0; i < 30; i++ {
		clients = append(clients, loc(
			fmt.Sprintf("C%02d", i),
			23.3441+float64((i*7)%11)*0.013-0.06,
			85.3096+float64((i*5)%13)*0.011-0.07,
		))
	}

	r := BuildTour(origin, clients, nil, 5.5)

	require.Len(t, r.Steps, len(clients)+2)
	seen := map[string]int{}
	sum := 0.0
	for i, s := range r.Steps {
		require.Equal(t, i+1, s.Step)
		require.GreaterOrEqual(t, s.DistanceFromPreviousKm, 0.0)
		sum += s.DistanceFromPreviousKm
		if s.Kind == domain.StepClient {
			seen[s.ID]++
		}
	}
	require.Len(t, seen, len(clients))
	for id, n := range seen {
		require.Equal(t, 1, n, id)
	}

	// Each step is rounded to 2 decimals independently of the total.
	require.InDelta(t, r.TotalDistanceKm, sum, 0.005*float64(len(r.Steps)))
}
