package dto

import (
	"fmt"

	"branch-route-service/internal/domain"
)

// ToDomain converts a request location. Missing coordinates are reported
// rather than defaulted to 0,0.
func (l LocationRequest) ToDomain(label string) (domain.Location, error) {
	if l.Lat == nil || l.Lon == nil {
		return domain.Location{}, &domain.ValidationError{
			Problems: []string{fmt.Sprintf("%s: lat and lon are required", label)},
		}
	}
	return domain.Location{ID: l.ID, Name: l.Name, Lat: *l.Lat, Lon: *l.Lon}, nil
}

func NewRouteResponse(r *domain.RouteResult) RouteResponse {
	res := RouteResponse{
		OptimizedRoute:    make([]RouteStepResponse, 0, len(r.Steps)),
		TotalDistanceKm:   r.TotalDistanceKm,
		ClientCount:       r.ClientCount,
		EstimatedFuelCost: r.EstimatedCost,
		DataSource:        string(r.DataSource),
	}
	for _, s := range r.Steps {
		res.OptimizedRoute = append(res.OptimizedRoute, RouteStepResponse{
			Step:                   s.Step,
			ID:                     s.ID,
			Name:                   s.Name,
			Lat:                    s.Lat,
			Lon:                    s.Lon,
			DistanceFromPreviousKm: s.DistanceFromPreviousKm,
			Type:                   string(s.Kind),
		})
	}
	if r.Path != nil {
		res.Polyline = make([][2]float64, 0, len(r.Path))
		for _, c := range r.Path {
			res.Polyline = append(res.Polyline, [2]float64{c.Lat, c.Lon})
		}
	}
	return res
}
