package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"branch-route-service/internal/domain"
	"branch-route-service/internal/platform/obs"
	"branch-route-service/internal/ports"

	"github.com/twpayne/go-polyline"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

// ORS returns the route geometry as an encoded polyline (precision 5) by default.
type directionsResponse struct {
	Routes []struct {
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

// ORSDirectionsClient implements DirectionsProvider with the OpenRouteService
// directions endpoint.
type ORSDirectionsClient struct {
	api     *apiClient
	apiKey  string
	baseURL string
	profile string
}

func NewORSDirectionsClient(apiKey string, opts Options) *ORSDirectionsClient {
	o := opts.withDefaults(orsBaseURL)
	return &ORSDirectionsClient{
		api:     newAPIClient("ors", o),
		apiKey:  apiKey,
		baseURL: o.BaseURL,
		profile: "driving-car",
	}
}

func (o *ORSDirectionsClient) RoutePath(
	ctx context.Context,
	points []domain.Coordinates,
) (_ []domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.RoutePath")(&err)

	if len(points) < 2 {
		return nil, errors.New("directions need at least 2 points")
	}

	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, p.CoordsToList())
	}
	payload, err := json.Marshal(directionsRequest{Coordinates: coords})
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)

	var dr directionsResponse
	err = o.api.doJSON(ctx, "directions", func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Authorization", o.apiKey)
		r.Header.Set("Content-Type", "application/json")
		return r, nil
	}, &dr)
	if err != nil {
		return nil, err
	}

	if len(dr.Routes) == 0 || dr.Routes[0].Geometry == "" {
		return nil, o.api.fail("directions", ports.ErrorMalformed, "", errors.New("no route geometry in response"))
	}

	decoded, _, err := polyline.DecodeCoords([]byte(dr.Routes[0].Geometry))
	if err != nil {
		return nil, o.api.fail("directions", ports.ErrorMalformed, "", fmt.Errorf("decode polyline: %w", err))
	}

	out := make([]domain.Coordinates, 0, len(decoded))
	for _, c := range decoded {
		if len(c) != 2 {
			continue
		}
		out = append(out, domain.Coordinates{Lat: c[0], Lon: c[1]})
	}
	return out, nil
}
