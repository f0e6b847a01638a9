package services

import (
	"context"
	"log"
	"slices"

	"branch-route-service/internal/domain"
	"branch-route-service/internal/platform/obs"
	"branch-route-service/internal/ports"
)

// EnrichPath asks the directions provider for a road-following outline through
// coords. Without a provider, with fewer than 2 points, or on any failure the
// input sequence is returned unchanged (straight-line path).
func EnrichPath(ctx context.Context, provider ports.DirectionsProvider, coords []domain.Coordinates) []domain.Coordinates {
	straight := slices.Clone(coords)

	if provider == nil {
		return straight
	}
	if len(coords) < 2 {
		return straight
	}

	path, err := provider.RoutePath(ctx, straight)
	if err != nil {
		log.Printf("req_id=%s op=path.Enrich points=%d result=straight_line err=%v", obs.RequestID(ctx), len(coords), err)
		return straight
	}
	if len(path) == 0 {
		return straight
	}

	return path
}
