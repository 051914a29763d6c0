package handlers

import (
	"net/http"

	"metaweb/console/pkg/httpapi"
	"metaweb/console/pkg/httpapi/types"
)

// availableModels is the static catalog of selectable upstream models.
var availableModels = []types.ModelInfo{
	{ID: "openai/gpt-4o-mini", Name: "GPT-4o Mini", Provider: "OpenAI"},
	{ID: "openai/gpt-4o", Name: "GPT-4o", Provider: "OpenAI"},
	{ID: "anthropic/claude-3-haiku", Name: "Claude 3 Haiku", Provider: "Anthropic"},
	{ID: "anthropic/claude-3-sonnet", Name: "Claude 3 Sonnet", Provider: "Anthropic"},
	{ID: "mistralai/mistral-7b-instruct", Name: "Mistral 7B", Provider: "Mistral"},
	{ID: "google/gemini-pro", Name: "Gemini Pro", Provider: "Google"},
}

// ModelsHandler serves GET /models.
type ModelsHandler struct{}

// NewModelsHandler creates a new models catalog handler.
func NewModelsHandler() *ModelsHandler {
	return &ModelsHandler{}
}

// List handles GET /models.
func (h *ModelsHandler) List(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSONResponse(w, http.StatusOK, types.ModelsResponse{Models: availableModels})
}
