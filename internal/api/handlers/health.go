package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"branch-route-service/internal/platform/obs"
)

// Health reports liveness and, when ping is set, whether the location store
// answers within two seconds.
func Health(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				log.Printf("req_id=%s health: store unavailable: %v", obs.RequestID(r.Context()), err)
				writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "store": "unavailable"})
				return
			}
		}

		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}
