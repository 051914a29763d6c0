// Package handlers contains the HTTP handlers for the configuration
// admin endpoints, the chat proxy endpoints, and health checks.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"metaweb/console/pkg/httpapi"
	"metaweb/console/pkg/httpapi/types"
	"metaweb/console/pkg/modelconfig"
	"metaweb/console/pkg/telemetry/metrics"
)

// ConfigHandler serves the configuration version endpoints.
type ConfigHandler struct {
	service   *modelconfig.Service
	collector *metrics.Collector
}

// NewConfigHandler creates a new configuration handler.
func NewConfigHandler(service *modelconfig.Service, collector *metrics.Collector) *ConfigHandler {
	return &ConfigHandler{
		service:   service,
		collector: collector,
	}
}

// Active handles GET /config/active. The body is the active version, or
// JSON null when nothing has been published yet.
func (h *ConfigHandler) Active(w http.ResponseWriter, r *http.Request) {
	active, err := h.service.ActiveVersion(r.Context())
	if err != nil {
		httpapi.HandleError(w, r, err)
		return
	}
	httpapi.WriteJSONResponse(w, http.StatusOK, active)
}

// History handles GET /config/history?limit=N, newest first.
func (h *ConfigHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpapi.WriteErrorResponse(w, types.NewInvalidRequestError(
				"limit must be an integer", "limit", types.CodeInvalidValue))
			return
		}
		limit = parsed
	}

	configs, err := h.service.ListVersions(r.Context(), limit)
	if err != nil {
		httpapi.HandleError(w, r, err)
		return
	}
	httpapi.WriteJSONResponse(w, http.StatusOK, configs)
}

// Create handles POST /config. The new version is stored inactive; a 400
// names the offending field when validation fails.
func (h *ConfigHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.CreateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteErrorResponse(w, types.NewInvalidRequestError(
			"request body is not valid JSON", "", types.CodeInvalidJSON))
		return
	}

	cv, err := h.service.CreateVersion(r.Context(), modelconfig.CreateInput{
		Model:        req.Model,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		SystemPrompt: req.SystemPrompt,
	})
	if err != nil {
		httpapi.HandleError(w, r, err)
		return
	}
	httpapi.WriteJSONResponse(w, http.StatusCreated, cv)
}

// Publish handles POST /config/{id}/publish.
func (h *ConfigHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpapi.WriteErrorResponse(w, types.NewInvalidRequestError(
			"id must be an integer", "id", types.CodeInvalidValue))
		return
	}

	result, err := h.service.PublishVersion(r.Context(), id)
	if err != nil {
		httpapi.HandleError(w, r, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordPublish(result.ActiveVersion)
	}
	httpapi.WriteJSONResponse(w, http.StatusOK, result)
}
