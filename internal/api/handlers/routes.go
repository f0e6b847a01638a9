package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"branch-route-service/internal/api/dto"
	"branch-route-service/internal/domain"
	"branch-route-service/internal/platform/obs"
	"branch-route-service/internal/ports"
	"branch-route-service/internal/services"
)

const (
	defaultPlanningClients = 10
	maxPlanningClients     = 100
	maxRouteClients        = 500
	maxRouteBodyBytes      = 1 << 20
	// Radius of the synthetic clients added when a branch has too few stored ones.
	mockClientRadiusKm = 10.0
)

// RouteComputer is the planning capability the handlers depend on.
type RouteComputer interface {
	ComputeRoute(ctx context.Context, origin domain.Location, clients []domain.Location, credential string) (*domain.RouteResult, error)
}

type RouteHandler struct {
	Planner RouteComputer
	Repo    ports.LocationRepository
	// DefaultCredential is used when a request carries none.
	DefaultCredential string
}

// Compute plans a route for caller-supplied locations.
func (h *RouteHandler) Compute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.RouteRequest

	body := http.MaxBytesReader(w, r.Body, maxRouteBodyBytes)
	dec := json.NewDecoder(body)
	defer body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if len(req.Clients) > maxRouteClients {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("at most %d clients are allowed", maxRouteClients))
		return
	}

	origin, err := req.Origin.ToDomain("origin")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	clients := make([]domain.Location, 0, len(req.Clients))
	for i, c := range req.Clients {
		loc, err := c.ToDomain(fmt.Sprintf("clients[%d]", i))
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		clients = append(clients, loc)
	}

	credential := strings.TrimSpace(req.Credential)
	if credential == "" {
		credential = h.DefaultCredential
	}

	h.respond(w, r, origin, clients, credential)
}

// Planning plans a route for a stored branch. Stored clients are used first;
// when the branch has fewer than num_clients, deterministic synthetic clients
// around the branch fill the gap.
func (h *RouteHandler) Planning(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	branchID := strings.TrimSpace(q.Get("branch"))
	if branchID == "" {
		writeError(w, r, http.StatusBadRequest, "branch is required")
		return
	}

	n := defaultPlanningClients
	if raw := strings.TrimSpace(q.Get("num_clients")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v > maxPlanningClients {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("num_clients must be between 0 and %d", maxPlanningClients))
			return
		}
		n = v
	}

	branch, err := h.Repo.GetBranch(r.Context(), branchID)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("branch %q not found", branchID))
		return
	}
	if err != nil {
		log.Printf("req_id=%s get branch failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	clients := []domain.Location{}
	if n > 0 {
		clients, err = h.Repo.ListClients(r.Context(), branchID, n)
		if err != nil {
			log.Printf("req_id=%s list clients failed: %v", obs.RequestID(r.Context()), err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
	}
	if missing := n - len(clients); missing > 0 {
		mocks := services.MockClients(branch.Coordinates(), missing, mockClientRadiusKm, services.SeedFor(branch.ID))
		clients = append(clients, mocks...)
	}

	h.respond(w, r, branch, clients, h.DefaultCredential)
}

func (h *RouteHandler) respond(w http.ResponseWriter, r *http.Request, origin domain.Location, clients []domain.Location, credential string) {
	result, err := h.Planner.ComputeRoute(r.Context(), origin, clients, credential)
	if errors.Is(err, domain.ErrInvalidInput) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Printf("req_id=%s compute route failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(result))
}
