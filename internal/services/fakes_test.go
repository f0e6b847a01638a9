package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"branch-route-service/internal/domain"
	"branch-route-service/internal/ports"
)

// scriptedProvider fails the first failures[i] calls for the chunk whose first
// origin is origins[i], then answers every pair with meters(o, d).
type scriptedProvider struct {
	mu       sync.Mutex
	calls    []ports.MatrixRequest
	failFor  map[domain.Coordinates]int
	seen     map[domain.Coordinates]int
	meters   func(o, d domain.Coordinates) (float64, bool)
	dropRows bool
}

func newScriptedProvider(meters func(o, d domain.Coordinates) (float64, bool)) *scriptedProvider {
	return &scriptedProvider{
		failFor: map[domain.Coordinates]int{},
		seen:    map[domain.Coordinates]int{},
		meters:  meters,
	}
}

func (p *scriptedProvider) DistanceMatrix(ctx context.Context, req ports.MatrixRequest) (*ports.MatrixResponse, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	first := req.Origins[0]
	p.seen[first]++
	attempt := p.seen[first]
	fails := p.failFor[first]
	p.mu.Unlock()

	if attempt <= fails {
		return nil, &ports.ProviderError{Provider: "fake", Op: "matrix", Kind: ports.ErrorTransport, Err: errors.New("connection reset")}
	}

	out := &ports.MatrixResponse{Status: ports.StatusOK}
	origins := req.Origins
	if p.dropRows && len(origins) > 1 {
		origins = origins[:1]
	}
	for _, o := range origins {
		var row ports.MatrixRow
		for _, d := range req.Destinations {
			m, ok := p.meters(o, d)
			if !ok {
				row.Elements = append(row.Elements, ports.MatrixElement{Status: ports.StatusZeroResults})
				continue
			}
			row.Elements = append(row.Elements, ports.MatrixElement{Status: ports.StatusOK, DistanceMeters: &m})
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

func (p *scriptedProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

// sleepRecorder replaces the builder's sleep so backoff can be observed.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

type staticFactory struct {
	matrix     ports.BatchDistanceProvider
	directions ports.DirectionsProvider
}

func (f staticFactory) Matrix(string) ports.BatchDistanceProvider  { return f.matrix }
func (f staticFactory) Directions(string) ports.DirectionsProvider { return f.directions }

type fakeDirections struct {
	path []domain.Coordinates
	err  error
	got  []domain.Coordinates
}

func (f *fakeDirections) RoutePath(ctx context.Context, pts []domain.Coordinates) ([]domain.Coordinates, error) {
	f.got = pts
	return f.path, f.err
}

func loc(id string, lat, lon float64) domain.Location {
	return domain.Location{ID: id, Name: "Site " + id, Lat: lat, Lon: lon}
}
