package handlers

import (
	"context"
	"net/http"
	"time"

	"metaweb/console/pkg/httpapi"
)

// StorePinger is the slice of the store the readiness check needs.
type StorePinger interface {
	ActiveIDs(ctx context.Context) ([]int64, error)
}

// HealthHandler serves liveness and readiness checks. GET /healthz is the
// retained legacy alias of /health.
type HealthHandler struct {
	store StorePinger
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(store StorePinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Live handles GET /health and GET /healthz.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// Ready handles GET /ready. The service is ready when the store answers.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.ActiveIDs(r.Context()); err != nil {
		httpapi.WriteJSONResponse(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "not_ready",
			"timestamp": time.Now().Unix(),
		})
		return
	}
	httpapi.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}
