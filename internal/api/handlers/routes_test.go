package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"branch-route-service/internal/api/dto"
	"branch-route-service/internal/config"
	"branch-route-service/internal/domain"
	"branch-route-service/internal/services"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	branches map[string]domain.Location
	clients  map[string][]domain.Location
	err      error
}

func (f *fakeRepo) GetBranch(ctx context.Context, id string) (domain.Location, error) {
	if f.err != nil {
		return domain.Location{}, f.err
	}
	b, ok := f.branches[id]
	if !ok {
		return domain.Location{}, domain.ErrNotFound
	}
	return b, nil
}

func (f *fakeRepo) ListClients(ctx context.Context, id string, limit int) ([]domain.Location, error) {
	cs := f.clients[id]
	if limit > 0 && len(cs) > limit {
		cs = cs[:limit]
	}
	return cs, nil
}

type recordingPlanner struct {
	credential string
	clients    []domain.Location
	inner      RouteComputer
}

func (p *recordingPlanner) ComputeRoute(ctx context.Context, origin domain.Location, clients []domain.Location, credential string) (*domain.RouteResult, error) {
	p.credential = credential
	p.clients = clients
	return p.inner.ComputeRoute(ctx, origin, clients, credential)
}

func newTestHandler() (*RouteHandler, *recordingPlanner) {
	planner := &recordingPlanner{inner: services.NewRoutePlanner(config.DefaultRouting(), nil)}
	repo := &fakeRepo{
		branches: map[string]domain.Location{
			"BR-RNC": {ID: "BR-RNC", Name: "Ranchi Main", Lat: 23.3441, Lon: 85.3096},
		},
		clients: map[string][]domain.Location{
			"BR-RNC": {
				{ID: "CL-001", Name: "Devi Traders", Lat: 23.30, Lon: 85.28},
				{ID: "CL-002", Name: "Oraon Farms", Lat: 23.31, Lon: 85.35},
			},
		},
	}
	return &RouteHandler{Planner: planner, Repo: repo}, planner
}

func decodeRoute(t *testing.T, rec *httptest.ResponseRecorder) dto.RouteResponse {
	t.Helper()
	var res dto.RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestComputeRoute(t *testing.T) {
	h, planner := newTestHandler()
	body := `{
		"origin": {"id": "B1", "name": "Branch", "lat": 0, "lon": 0},
		"clients": [
			{"id": "C2", "name": "Far", "lat": 0, "lon": 2},
			{"id": "C1", "name": "Near", "lat": 0, "lon": 1}
		]
	}`

	rec := httptest.NewRecorder()
	h.Compute(rec, httptest.NewRequest(http.MethodPost, "/routes", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	res := decodeRoute(t, rec)
	require.Len(t, res.OptimizedRoute, 4)
	require.Equal(t, "origin", res.OptimizedRoute[0].Type)
	require.Equal(t, "C1", res.OptimizedRoute[1].ID)
	require.Equal(t, "client", res.OptimizedRoute[1].Type)
	require.Equal(t, domain.ReturnStepID, res.OptimizedRoute[3].ID)
	require.Equal(t, "return", res.OptimizedRoute[3].Type)
	require.Equal(t, 2, res.ClientCount)
	require.Equal(t, "fallback", res.DataSource)
	require.Len(t, res.Polyline, 4)
	require.Equal(t, "", planner.credential)
}

func TestComputeRouteCredentialDefaults(t *testing.T) {
	h, planner := newTestHandler()
	h.DefaultCredential = "server-key"
	h.Planner = &recordingPlanner{inner: planner.inner}

	body := `{"origin": {"id": "B1", "lat": 1, "lon": 1}, "clients": []}`
	rec := httptest.NewRecorder()
	h.Compute(rec, httptest.NewRequest(http.MethodPost, "/routes", strings.NewReader(body)))
	require.Equal(t, "server-key", h.Planner.(*recordingPlanner).credential)

	body = `{"origin": {"id": "B1", "lat": 1, "lon": 1}, "credential": "caller-key"}`
	rec = httptest.NewRecorder()
	h.Compute(rec, httptest.NewRequest(http.MethodPost, "/routes", strings.NewReader(body)))
	require.Equal(t, "caller-key", h.Planner.(*recordingPlanner).credential)
}

func TestComputeRouteBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "not json", body: `{`, want: "invalid json body"},
		{name: "unknown field", body: `{"origin": {"id": "B", "lat": 1, "lon": 1}, "vehicle": 2}`, want: "invalid json body"},
		{name: "two objects", body: `{"origin": {"id": "B", "lat": 1, "lon": 1}}{}`, want: "only one JSON object"},
		{name: "missing coordinates", body: `{"origin": {"id": "B", "lat": 1}}`, want: "origin: lat and lon are required"},
		{name: "out of range", body: `{"origin": {"id": "B", "lat": 95, "lon": 1}}`, want: "invalid input"},
		{name: "duplicate ids", body: `{"origin": {"id": "B", "lat": 1, "lon": 1}, "clients": [{"id": "B", "lat": 2, "lon": 2}]}`, want: "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler()
			rec := httptest.NewRecorder()
			h.Compute(rec, httptest.NewRequest(http.MethodPost, "/routes", strings.NewReader(tt.body)))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestComputeRouteMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler()
	rec := httptest.NewRecorder()
	h.Compute(rec, httptest.NewRequest(http.MethodGet, "/routes", nil))

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestPlanningUsesStoredAndMockClients(t *testing.T) {
	h, planner := newTestHandler()
	h.DefaultCredential = "server-key"

	rec := httptest.NewRecorder()
	h.Planning(rec, httptest.NewRequest(http.MethodGet, "/planning/route?branch=BR-RNC&num_clients=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, planner.clients, 5)
	require.Equal(t, "CL-001", planner.clients[0].ID)
	require.Equal(t, "CL-002", planner.clients[1].ID)
	require.Equal(t, "MOCK-001", planner.clients[2].ID)
	require.Equal(t, "server-key", planner.credential)

	res := decodeRoute(t, rec)
	require.Equal(t, 5, res.ClientCount)
	require.Equal(t, "BR-RNC", res.OptimizedRoute[0].ID)

	// same branch, same synthetic clients
	first := planner.clients
	h.Planning(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/planning/route?branch=BR-RNC&num_clients=5", nil))
	require.Equal(t, first, planner.clients)
}

func TestPlanningErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		repo   *fakeRepo
		status int
	}{
		{name: "missing branch", target: "/planning/route", status: http.StatusBadRequest},
		{name: "bad count", target: "/planning/route?branch=BR-RNC&num_clients=abc", status: http.StatusBadRequest},
		{name: "count too large", target: "/planning/route?branch=BR-RNC&num_clients=1000", status: http.StatusBadRequest},
		{name: "unknown branch", target: "/planning/route?branch=NOPE", status: http.StatusNotFound},
		{name: "repository failure", target: "/planning/route?branch=BR-RNC", repo: &fakeRepo{err: errors.New("db down")}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler()
			if tt.repo != nil {
				h.Repo = tt.repo
			}
			rec := httptest.NewRecorder()
			h.Planning(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestComputeRouteRejectsOversizedBody(t *testing.T) {
	h, planner := newTestHandler()

	var b strings.Builder
	b.WriteString(`{"origin": {"id": "B", "lat": 1, "lon": 1}, "clients": [`)
	for i := 0; b.Len() <= maxRouteBodyBytes; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"id": "C", "name": "` + strings.Repeat("x", 200) + `", "lat": 1, "lon": 1}`)
	}
	b.WriteString("]}")

	rec := httptest.NewRecorder()
	h.Compute(rec, httptest.NewRequest(http.MethodPost, "/routes", strings.NewReader(b.String())))

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Nil(t, planner.clients)
}
