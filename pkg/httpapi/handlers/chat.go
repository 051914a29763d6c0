package handlers

import (
	"encoding/json"
	"net/http"

	"metaweb/console/pkg/httpapi"
	"metaweb/console/pkg/httpapi/types"
	"metaweb/console/pkg/modelconfig"
	"metaweb/console/pkg/telemetry/metrics"
	"metaweb/console/pkg/upstream"
)

// evaluatePromptPrefix wraps submitted text for the review endpoint. The
// wording is kept from the deployed product.
const evaluatePromptPrefix = "请帮我评价这段学习回答: "

// ChatHandler serves the completion endpoints. Requests resolve the
// effective configuration per field: an absent override falls back, an
// explicit value is validated and used.
type ChatHandler struct {
	service   *modelconfig.Service
	gateway   upstream.Gateway
	collector *metrics.Collector
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(service *modelconfig.Service, gateway upstream.Gateway, collector *metrics.Collector) *ChatHandler {
	return &ChatHandler{
		service:   service,
		gateway:   gateway,
		collector: collector,
	}
}

// Chat handles POST /chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteErrorResponse(w, types.NewInvalidRequestError(
			"request body is not valid JSON", "", types.CodeInvalidJSON))
		return
	}
	if req.Message == "" {
		httpapi.WriteErrorResponse(w, types.NewInvalidRequestError(
			"message is required", "message", types.CodeInvalidValue))
		return
	}

	content, used, ok := h.complete(w, r, req.Message, &req)
	if !ok {
		return
	}
	httpapi.WriteJSONResponse(w, http.StatusOK, types.ChatResponse{
		Response:   content,
		ConfigUsed: used,
	})
}

// Evaluate handles POST /evaluate: the submitted text is wrapped in the
// review prompt and sent through the same effective-config path as /chat.
func (h *ChatHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req types.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteErrorResponse(w, types.NewInvalidRequestError(
			"request body is not valid JSON", "", types.CodeInvalidJSON))
		return
	}
	if req.InputText == "" {
		httpapi.WriteErrorResponse(w, types.NewInvalidRequestError(
			"input_text is required", "input_text", types.CodeInvalidValue))
		return
	}

	content, used, ok := h.complete(w, r, evaluatePromptPrefix+req.InputText, nil)
	if !ok {
		return
	}
	httpapi.WriteJSONResponse(w, http.StatusOK, types.EvaluateResponse{
		Feedback:   content,
		ConfigUsed: used,
	})
}

// complete resolves the effective configuration, applies any per-field
// overrides, and forwards the message upstream. A nil overrides request
// means no overrides. On failure the error response has already been
// written and ok is false.
func (h *ChatHandler) complete(w http.ResponseWriter, r *http.Request, message string, overrides *types.ChatRequest) (string, types.ConfigUsed, bool) {
	eff, err := h.service.ResolveEffective(r.Context())
	if err != nil {
		httpapi.HandleError(w, r, err)
		return "", types.ConfigUsed{}, false
	}

	upReq := &upstream.Request{
		Message:      message,
		SystemPrompt: eff.SystemPrompt,
		Model:        eff.Model,
		Temperature:  eff.Temperature,
		MaxTokens:    eff.MaxTokens,
	}

	if overrides != nil {
		if overrides.Model != nil {
			if err := modelconfig.ValidateModel(*overrides.Model); err != nil {
				httpapi.HandleError(w, r, err)
				return "", types.ConfigUsed{}, false
			}
			upReq.Model = *overrides.Model
		}
		if overrides.Temperature != nil {
			if err := modelconfig.ValidateTemperature(*overrides.Temperature); err != nil {
				httpapi.HandleError(w, r, err)
				return "", types.ConfigUsed{}, false
			}
			upReq.Temperature = *overrides.Temperature
		}
		if overrides.MaxTokens != nil {
			if err := modelconfig.ValidateMaxTokens(*overrides.MaxTokens); err != nil {
				httpapi.HandleError(w, r, err)
				return "", types.ConfigUsed{}, false
			}
			upReq.MaxTokens = *overrides.MaxTokens
		}
		if overrides.SystemPrompt != nil {
			upReq.SystemPrompt = *overrides.SystemPrompt
		}
	}

	completion, err := h.gateway.Complete(r.Context(), upReq)
	if err != nil {
		httpapi.HandleError(w, r, err)
		return "", types.ConfigUsed{}, false
	}

	if h.collector != nil {
		h.collector.RecordTokens(upReq.Model, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
	}

	used := types.ConfigUsed{
		Model:        upReq.Model,
		Temperature:  upReq.Temperature,
		MaxTokens:    upReq.MaxTokens,
		SystemPrompt: upReq.SystemPrompt,
		Version:      eff.Version,
		IsActive:     eff.IsActive,
	}
	return completion.Content, used, true
}
