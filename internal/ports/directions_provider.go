package ports

import (
	"context"

	"branch-route-service/internal/domain"
)

// Contract for retrieving a road-following outline through ordered points.
type DirectionsProvider interface {
	// Return the decoded path from the first point to the last, passing the
	// intermediate points as waypoints.
	RoutePath(ctx context.Context, points []domain.Coordinates) ([]domain.Coordinates, error)
}
