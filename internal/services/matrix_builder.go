package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"branch-route-service/internal/config"
	"branch-route-service/internal/domain"
	"branch-route-service/internal/geo"
	"branch-route-service/internal/platform/obs"
	"branch-route-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

// MatrixBuilder assembles a complete distance matrix over a set of locations.
//
// Origins are split into chunks of at most cfg.ChunkSize and each chunk is
// queried against every destination in one request, so a build issues
// ceil(N/ChunkSize) successful calls. Failed requests are retried with
// exponential backoff; a chunk that exhausts its attempts, and any pair the
// provider cannot route, is filled with the penalized geometric distance.
// Build never fails because of the provider.
type MatrixBuilder struct {
	cfg      config.Routing
	provider ports.BatchDistanceProvider
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewMatrixBuilder returns a builder for the given provider. A nil provider
// means no credential was supplied and every cell is a fallback.
func NewMatrixBuilder(cfg config.Routing, provider ports.BatchDistanceProvider) *MatrixBuilder {
	return &MatrixBuilder{cfg: cfg, provider: provider, sleep: sleepContext}
}

// chunkAttempt is the outcome of one request for one chunk.
type chunkAttempt struct {
	attempt int
	resp    *ports.MatrixResponse
	err     error
}

// chunkResult is what a chunk contributes to the matrix. Only the goroutine
// processing the chunk writes it; Build merges results afterwards.
type chunkResult struct {
	start, end int
	resp       *ports.MatrixResponse
	attempts   int
}

// Build returns a complete matrix over locations and whether any cell came
// from the provider. The only error is a cancelled or expired ctx.
func (b *MatrixBuilder) Build(
	ctx context.Context,
	locations []domain.Location,
) (_ domain.DistanceMatrix, _ domain.DataSource, err error) {
	defer obs.Time(ctx, "matrix.Build")(&err)

	n := len(locations)
	ids := make([]string, n)
	coords := make([]domain.Coordinates, n)
	for i, loc := range locations {
		ids[i] = loc.ID
		coords[i] = loc.Coordinates()
	}

	matrix := domain.NewDistanceMatrix(ids)
	if n == 0 {
		return matrix, domain.DataSourceFallback, nil
	}

	if b.provider == nil {
		log.Printf("req_id=%s op=matrix.Build locations=%d source=fallback reason=no_credential", obs.RequestID(ctx), n)
		b.complete(matrix, ids, coords)
		return matrix, domain.DataSourceFallback, nil
	}

	// A single location has only the zero diagonal; nothing to ask the provider.
	if n == 1 {
		b.complete(matrix, ids, coords)
		return matrix, domain.DataSourceFallback, nil
	}

	results, err := b.fetchChunks(ctx, coords)
	if err != nil {
		return nil, "", err
	}

	primary := 0
	for _, res := range results {
		if res.resp == nil {
			log.Printf(
				"req_id=%s op=matrix.Build chunk=%d-%d attempts=%d result=fallback",
				obs.RequestID(ctx), res.start, res.end-1, res.attempts,
			)
			b.fillRows(matrix, ids, coords, res.start, res.end)
			continue
		}
		primary += b.mergeChunk(matrix, ids, coords, res)
	}

	// Guarantees completeness even if the provider omitted rows or elements.
	b.complete(matrix, ids, coords)

	source := domain.DataSourceFallback
	if primary > 0 {
		source = domain.DataSourcePrimary
	}

	log.Printf(
		"req_id=%s op=matrix.Build locations=%d chunks=%d primary_cells=%d source=%s",
		obs.RequestID(ctx), n, len(results), primary, source,
	)
	return matrix, source, nil
}

// fetchChunks queries every origin chunk, up to cfg.MatrixConcurrency at a time.
func (b *MatrixBuilder) fetchChunks(ctx context.Context, coords []domain.Coordinates) ([]chunkResult, error) {
	n := len(coords)
	size := b.cfg.ChunkSize
	if size < 1 {
		size = 1
	}

	results := make([]chunkResult, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		results = append(results, chunkResult{start: start, end: min(start+size, n)})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, b.cfg.MatrixConcurrency))

	for i := range results {
		res := &results[i]
		g.Go(func() error {
			req := ports.MatrixRequest{
				Origins:      coords[res.start:res.end],
				Destinations: coords,
			}
			last, err := b.fetchWithRetry(gctx, req)
			if err != nil {
				return err
			}
			res.attempts = last.attempt
			if last.err == nil {
				res.resp = last.resp
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build distance matrix: %w", err)
	}
	return results, nil
}

// fetchWithRetry runs the bounded retry loop for one chunk and returns the
// last attempt. The returned error is non-nil only when ctx is done.
func (b *MatrixBuilder) fetchWithRetry(ctx context.Context, req ports.MatrixRequest) (chunkAttempt, error) {
	maxAttempts := max(1, b.cfg.MaxAttempts)

	var last chunkAttempt
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}

		if wait := b.cfg.Backoff(attempt); wait > 0 {
			if err := b.sleep(ctx, wait); err != nil {
				return last, err
			}
		}

		resp, err := b.provider.DistanceMatrix(ctx, req)
		if err == nil && resp != nil && resp.Status != ports.StatusOK {
			err = &ports.ProviderError{Provider: "matrix", Op: "distance matrix", Kind: ports.ErrorStatus, Status: resp.Status}
		}
		if err == nil && resp == nil {
			err = &ports.ProviderError{Provider: "matrix", Op: "distance matrix", Kind: ports.ErrorMalformed}
		}

		last = chunkAttempt{attempt: attempt, resp: resp, err: err}
		if err == nil {
			return last, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return last, ctxErr
		}

		log.Printf(
			"req_id=%s op=matrix.fetch origins=%d attempt=%d/%d kind=%s err=%v",
			obs.RequestID(ctx), len(req.Origins), attempt, maxAttempts, ports.KindOf(err), err,
		)
	}

	return last, nil
}

// mergeChunk records every usable element of a chunk and returns how many
// off-diagonal cells came from the provider. Unroutable pairs get the
// fallback distance.
func (b *MatrixBuilder) mergeChunk(
	matrix domain.DistanceMatrix,
	ids []string,
	coords []domain.Coordinates,
	res chunkResult,
) int {
	recorded := 0
	for ri, row := range res.resp.Rows {
		i := res.start + ri
		if i >= res.end {
			break
		}
		for j, el := range row.Elements {
			if j >= len(ids) {
				break
			}
			if el.Usable() {
				matrix.Set(ids[i], ids[j], *el.DistanceMeters/1000.0)
				if i != j {
					recorded++
				}
				continue
			}
			matrix.Set(ids[i], ids[j], geo.Penalized(coords[i], coords[j], b.cfg.Tortuosity))
		}
	}
	return recorded
}

// fillRows writes fallback distances for origins [start, end) to every destination.
func (b *MatrixBuilder) fillRows(matrix domain.DistanceMatrix, ids []string, coords []domain.Coordinates, start, end int) {
	for i := start; i < end; i++ {
		for j := range ids {
			matrix.Set(ids[i], ids[j], geo.Penalized(coords[i], coords[j], b.cfg.Tortuosity))
		}
	}
}

// complete forces a zero diagonal and fills every missing cell with the fallback.
func (b *MatrixBuilder) complete(matrix domain.DistanceMatrix, ids []string, coords []domain.Coordinates) {
	for i, from := range ids {
		matrix.Set(from, from, 0)
		for j, to := range ids {
			if _, ok := matrix.Lookup(from, to); ok {
				continue
			}
			matrix.Set(from, to, geo.Penalized(coords[i], coords[j], b.cfg.Tortuosity))
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
