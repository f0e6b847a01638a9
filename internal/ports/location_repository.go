package ports

import (
	"context"

	"branch-route-service/internal/domain"
)

// Port: a boundary for retrieving branch offices and their clients.
type LocationRepository interface {
	// Retrieve a branch office by id. Returns domain.ErrNotFound when missing.
	GetBranch(ctx context.Context, branchID string) (domain.Location, error)
	// Retrieve up to limit clients of a branch in a stable order.
	ListClients(ctx context.Context, branchID string, limit int) ([]domain.Location, error)
}
