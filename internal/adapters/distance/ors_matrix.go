package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"branch-route-service/internal/platform/obs"
	"branch-route-service/internal/ports"
)

const orsBaseURL = "https://api.openrouteservice.org"

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
}

// ORSMatrixClient implements BatchDistanceProvider using the OpenRouteService
// matrix endpoint. ORS has no per-element status, so null cells are reported
// as ZERO_RESULTS.
type ORSMatrixClient struct {
	api     *apiClient
	apiKey  string
	baseURL string
	profile string
}

func NewORSMatrixClient(apiKey string, opts Options) *ORSMatrixClient {
	o := opts.withDefaults(orsBaseURL)
	return &ORSMatrixClient{
		api:     newAPIClient("ors", o),
		apiKey:  apiKey,
		baseURL: o.BaseURL,
		profile: "driving-car",
	}
}

func (o *ORSMatrixClient) DistanceMatrix(
	ctx context.Context,
	req ports.MatrixRequest,
) (_ *ports.MatrixResponse, err error) {
	defer obs.Time(ctx, "ors.DistanceMatrix")(&err)

	if len(req.Origins) == 0 || len(req.Destinations) == 0 {
		return &ports.MatrixResponse{Status: ports.StatusOK}, nil
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	// Origins come first in the locations list, destinations follow.
	locations := make([][]float64, 0, len(req.Origins)+len(req.Destinations))
	sources := make([]int, 0, len(req.Origins))
	for i, c := range req.Origins {
		locations = append(locations, c.CoordsToList())
		sources = append(sources, i)
	}
	destIdx := make([]int, 0, len(req.Destinations))
	for _, c := range req.Destinations {
		destIdx = append(destIdx, len(locations))
		locations = append(locations, c.CoordsToList())
	}

	payload, err := json.Marshal(matrixRequest{
		Locations:    locations,
		Destinations: destIdx,
		Metrics:      []string{"distance"},
		Sources:      sources,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	var mr matrixResponse
	err = o.api.doJSON(ctx, "matrix", func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Authorization", o.apiKey)
		r.Header.Set("Content-Type", "application/json")
		return r, nil
	}, &mr)
	if err != nil {
		return nil, err
	}

	if mr.Distances == nil {
		return nil, o.api.fail("matrix", ports.ErrorMalformed, "", fmt.Errorf("response has no distances"))
	}

	out := &ports.MatrixResponse{
		Status: ports.StatusOK,
		Rows:   make([]ports.MatrixRow, 0, len(mr.Distances)),
	}
	for _, row := range mr.Distances {
		elems := make([]ports.MatrixElement, 0, len(row))
		for _, meters := range row {
			if meters == nil {
				elems = append(elems, ports.MatrixElement{Status: ports.StatusZeroResults})
				continue
			}
			m := *meters
			elems = append(elems, ports.MatrixElement{Status: ports.StatusOK, DistanceMeters: &m})
		}
		out.Rows = append(out.Rows, ports.MatrixRow{Elements: elems})
	}

	return out, nil
}
