package distance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"branch-route-service/internal/domain"
	"branch-route-service/internal/platform/obs"
	"branch-route-service/internal/ports"

	"github.com/twpayne/go-polyline"
)

type googleDirectionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
	} `json:"routes"`
}

// GoogleDirectionsClient implements DirectionsProvider using the Google
// Directions API and decodes the overview polyline into coordinates.
type GoogleDirectionsClient struct {
	api     *apiClient
	baseURL string
	apiKey  string
}

func NewGoogleDirectionsClient(apiKey string, opts Options) *GoogleDirectionsClient {
	o := opts.withDefaults(googleMapsBaseURL)
	return &GoogleDirectionsClient{
		api:     newAPIClient("google", o),
		baseURL: o.BaseURL,
		apiKey:  apiKey,
	}
}

func (g *GoogleDirectionsClient) RoutePath(
	ctx context.Context,
	points []domain.Coordinates,
) (_ []domain.Coordinates, err error) {
	defer obs.Time(ctx, "google.RoutePath")(&err)

	if len(points) < 2 {
		return nil, errors.New("directions need at least 2 points")
	}

	params := url.Values{}
	params.Set("origin", FormatCoordinate(points[0]))
	params.Set("destination", FormatCoordinate(points[len(points)-1]))
	if waypoints := points[1 : len(points)-1]; len(waypoints) > 0 {
		params.Set("waypoints", JoinCoordinates(waypoints))
	}
	params.Set("mode", "driving")
	params.Set("units", "metric")
	params.Set("key", g.apiKey)
	endpoint := g.baseURL + "/directions/json?" + params.Encode()

	var decoded googleDirectionsResponse
	err = g.api.doJSON(ctx, "directions", func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	}, &decoded)
	if err != nil {
		return nil, err
	}

	if decoded.Status != ports.StatusOK {
		return nil, g.api.fail("directions", ports.ErrorStatus, decoded.Status, fmt.Errorf("%s", decoded.ErrorMessage))
	}
	if len(decoded.Routes) == 0 {
		return nil, g.api.fail("directions", ports.ErrorMalformed, "", errors.New("no routes in response"))
	}

	coords, _, err := polyline.DecodeCoords([]byte(decoded.Routes[0].OverviewPolyline.Points))
	if err != nil {
		return nil, g.api.fail("directions", ports.ErrorMalformed, "", fmt.Errorf("decode polyline: %w", err))
	}

	out := make([]domain.Coordinates, 0, len(coords))
	for _, c := range coords {
		if len(c) != 2 {
			continue
		}
		out = append(out, domain.Coordinates{Lat: c[0], Lon: c[1]})
	}
	return out, nil
}
