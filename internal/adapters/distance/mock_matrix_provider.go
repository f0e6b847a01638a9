package distance

import (
	"context"
	"sync"

	"branch-route-service/internal/domain"
	"branch-route-service/internal/ports"
)

type MockPair struct {
	From, To domain.Coordinates
	Meters   float64
}

// MockMatrixProvider answers from a fixed table. Identical points are 0 m,
// pairs missing from the table come back as ZERO_RESULTS.
type MockMatrixProvider struct {
	m map[string]float64

	mu    sync.Mutex
	calls []ports.MatrixRequest
}

func NewMockMatrixProvider(pairs []MockPair) *MockMatrixProvider {
	m := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		m[FormatCoordinate(p.From)+"|"+FormatCoordinate(p.To)] = p.Meters
	}
	return &MockMatrixProvider{m: m}
}

func (p *MockMatrixProvider) DistanceMatrix(ctx context.Context, req ports.MatrixRequest) (*ports.MatrixResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.calls = append(p.calls, req)
	p.mu.Unlock()

	out := &ports.MatrixResponse{Status: ports.StatusOK}
	for _, o := range req.Origins {
		row := ports.MatrixRow{Elements: make([]ports.MatrixElement, 0, len(req.Destinations))}
		for _, d := range req.Destinations {
			if o == d {
				zero := 0.0
				row.Elements = append(row.Elements, ports.MatrixElement{Status: ports.StatusOK, DistanceMeters: &zero})
				continue
			}
			meters, ok := p.m[FormatCoordinate(o)+"|"+FormatCoordinate(d)]
			if !ok {
				row.Elements = append(row.Elements, ports.MatrixElement{Status: ports.StatusZeroResults})
				continue
			}
			row.Elements = append(row.Elements, ports.MatrixElement{Status: ports.StatusOK, DistanceMeters: &meters})
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// Calls returns the requests received so far.
func (p *MockMatrixProvider) Calls() []ports.MatrixRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.MatrixRequest(nil), p.calls...)
}
