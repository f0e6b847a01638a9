package distance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"branch-route-service/internal/domain"
	"branch-route-service/internal/platform/obs"
	"branch-route-service/internal/ports"
)

const googleMapsBaseURL = "https://maps.googleapis.com/maps/api"

type googleMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance *struct {
				Value *float64 `json:"value"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// GoogleMatrixClient implements BatchDistanceProvider using the Google Distance
// Matrix API (driving, metric). The client is safe for concurrent use.
type GoogleMatrixClient struct {
	api     *apiClient
	baseURL string
	apiKey  string
}

func NewGoogleMatrixClient(apiKey string, opts Options) *GoogleMatrixClient {
	o := opts.withDefaults(googleMapsBaseURL)
	return &GoogleMatrixClient{
		api:     newAPIClient("google", o),
		baseURL: o.BaseURL,
		apiKey:  apiKey,
	}
}

func (g *GoogleMatrixClient) DistanceMatrix(
	ctx context.Context,
	req ports.MatrixRequest,
) (_ *ports.MatrixResponse, err error) {
	defer obs.Time(ctx, "google.DistanceMatrix")(&err)

	params := url.Values{}
	params.Set("origins", JoinCoordinates(req.Origins))
	params.Set("destinations", JoinCoordinates(req.Destinations))
	params.Set("mode", "driving")
	params.Set("units", "metric")
	params.Set("key", g.apiKey)
	endpoint := g.baseURL + "/distancematrix/json?" + params.Encode()

	var decoded googleMatrixResponse
	err = g.api.doJSON(ctx, "distance matrix", func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	}, &decoded)
	if err != nil {
		return nil, err
	}

	if decoded.Status != ports.StatusOK {
		kind := ports.ErrorStatus
		switch decoded.Status {
		case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
			kind = ports.ErrorQuota
		}
		return nil, g.api.fail("distance matrix", kind, decoded.Status, fmt.Errorf("%s", decoded.ErrorMessage))
	}

	out := &ports.MatrixResponse{
		Status: decoded.Status,
		Rows:   make([]ports.MatrixRow, 0, len(decoded.Rows)),
	}
	for _, row := range decoded.Rows {
		elems := make([]ports.MatrixElement, 0, len(row.Elements))
		for _, e := range row.Elements {
			el := ports.MatrixElement{Status: e.Status}
			if e.Distance != nil && e.Distance.Value != nil {
				meters := *e.Distance.Value
				el.DistanceMeters = &meters
			}
			elems = append(elems, el)
		}
		out.Rows = append(out.Rows, ports.MatrixRow{Elements: elems})
	}

	return out, nil
}

// FormatCoordinate renders "lat,lon" the way Google expects it.
func FormatCoordinate(c domain.Coordinates) string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

func JoinCoordinates(cs []domain.Coordinates) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = FormatCoordinate(c)
	}
	return strings.Join(parts, "|")
}
