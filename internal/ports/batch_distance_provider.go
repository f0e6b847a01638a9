package ports

import (
	"context"

	"branch-route-service/internal/domain"
)

// Status values shared by matrix responses and their elements.
const (
	StatusOK          = "OK"
	StatusNotFound    = "NOT_FOUND"
	StatusZeroResults = "ZERO_RESULTS"
)

// One many-to-many distance query. Rows of the response follow Origins and
// elements within a row follow Destinations.
type MatrixRequest struct {
	Origins      []domain.Coordinates
	Destinations []domain.Coordinates
}

type MatrixElement struct {
	Status string
	// DistanceMeters is nil when the provider returned no distance.
	DistanceMeters *float64
}

// Usable reports whether the element carries a distance that can be recorded.
func (e MatrixElement) Usable() bool {
	return e.Status == StatusOK && e.DistanceMeters != nil && *e.DistanceMeters >= 0
}

type MatrixRow struct {
	Elements []MatrixElement
}

type MatrixResponse struct {
	Status string
	Rows   []MatrixRow
}

// Contract for retrieving driving distances for many origins and destinations
// in a single round-trip.
type BatchDistanceProvider interface {
	// Return the provider's answer for the request. A non-nil error means the
	// whole request failed and may be retried.
	DistanceMatrix(ctx context.Context, req MatrixRequest) (*MatrixResponse, error)
}
