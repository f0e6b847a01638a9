package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"branch-route-service/internal/config"
	"branch-route-service/internal/domain"
	"branch-route-service/internal/platform/obs"
	"branch-route-service/internal/ports"
)

// ProviderFactory turns a request credential into live providers. An empty
// credential must yield nil providers, which selects the geometric fallback.
type ProviderFactory interface {
	Matrix(credential string) ports.BatchDistanceProvider
	Directions(credential string) ports.DirectionsProvider
}

// RoutePlanner is the entry point used by the service layer. It holds no
// per-request state and is safe for concurrent use.
type RoutePlanner struct {
	cfg       config.Routing
	providers ProviderFactory
}

func NewRoutePlanner(cfg config.Routing, providers ProviderFactory) *RoutePlanner {
	return &RoutePlanner{cfg: cfg, providers: providers}
}

// ComputeRoute builds the distance matrix over origin and clients, plans a
// nearest-neighbor tour and, when enabled, attaches a display path.
//
// For well-formed input it always returns a route: provider failures degrade
// to geometric distances and are reflected in DataSource. Errors are limited to
// invalid input (wrapping domain.ErrInvalidInput) and ctx cancellation.
func (p *RoutePlanner) ComputeRoute(
	ctx context.Context,
	origin domain.Location,
	clients []domain.Location,
	credential string,
) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, "route.Compute")(&err)

	if err := validateRouteInput(origin, clients); err != nil {
		return nil, fmt.Errorf("compute route: %w", err)
	}

	credential = strings.TrimSpace(credential)
	var (
		matrixProvider     ports.BatchDistanceProvider
		directionsProvider ports.DirectionsProvider
	)
	if credential != "" && p.providers != nil {
		matrixProvider = p.providers.Matrix(credential)
		directionsProvider = p.providers.Directions(credential)
	}

	locations := make([]domain.Location, 0, len(clients)+1)
	locations = append(locations, origin)
	locations = append(locations, clients...)

	matrix, source, err := NewMatrixBuilder(p.cfg, matrixProvider).Build(ctx, locations)
	if err != nil {
		return nil, fmt.Errorf("compute route: %w", err)
	}

	result := BuildTour(origin, clients, matrix, p.cfg.CostPerKm)
	result.DataSource = source

	if p.cfg.IncludePath {
		result.Path = EnrichPath(ctx, directionsProvider, result.OrderedCoordinates())
	}

	log.Printf(
		"req_id=%s op=route.Compute clients=%d total_km=%.2f source=%s",
		obs.RequestID(ctx), result.ClientCount, result.TotalDistanceKm, result.DataSource,
	)
	return result, nil
}
