package api

import (
	"context"
	"net/http"

	"branch-route-service/internal/api/handlers"
	"branch-route-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// ping may be nil when there is no store to check.
func NewRouter(
	planner handlers.RouteComputer,
	repo ports.LocationRepository,
	credential string,
	ping func(ctx context.Context) error,
) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{
		Planner:           planner,
		Repo:              repo,
		DefaultCredential: credential,
	}

	mux.HandleFunc("/health", handlers.Health(ping))
	mux.HandleFunc("/routes", routeHandler.Compute)
	mux.HandleFunc("/planning/route", routeHandler.Planning)
	// Path used by the existing dashboard frontend.
	mux.HandleFunc("/api/planning/route", routeHandler.Planning)

	return requestIDMiddleware(loggingMiddleware(mux))
}
