// Package httpapi implements the HTTP surface of the service: the
// configuration admin endpoints, the chat proxy endpoints, and the
// middleware chain around them.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"metaweb/console/pkg/admin"
	"metaweb/console/pkg/httpapi/types"
	"metaweb/console/pkg/modelconfig"
	"metaweb/console/pkg/upstream"
)

// WriteJSONResponse writes a JSON response with the given status code.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}
	return nil
}

// WriteErrorResponse writes the JSON error envelope with the status code
// derived from the error type.
func WriteErrorResponse(w http.ResponseWriter, errResp *types.ErrorResponse) error {
	return WriteJSONResponse(w, errResp.Error.HTTPStatusCode(), errResp)
}

// HandleError maps a domain error to the HTTP error envelope and writes
// it. Unknown errors become a generic 500 so internals never leak to
// clients.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *modelconfig.ValidationError
	if errors.As(err, &verr) {
		WriteErrorResponse(w, types.NewInvalidRequestError(verr.Message, verr.Field, types.CodeInvalidValue))
		return
	}

	var nferr *modelconfig.NotFoundError
	if errors.As(err, &nferr) {
		WriteErrorResponse(w, types.NewNotFoundError(nferr.Error()))
		return
	}

	if errors.Is(err, admin.ErrUnauthorized) {
		WriteErrorResponse(w, types.NewAuthenticationError(admin.ErrUnauthorized.Error()))
		return
	}

	var uerr *upstream.UpstreamError
	if errors.As(err, &uerr) {
		WriteErrorResponse(w, types.NewBadGatewayError("upstream completion failed"))
		return
	}

	slog.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	WriteErrorResponse(w, types.NewServerError("An internal error occurred. Please try again later."))
}
