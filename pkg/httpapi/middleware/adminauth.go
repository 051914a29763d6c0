package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"metaweb/console/pkg/admin"
	"metaweb/console/pkg/httpapi/types"
)

// AdminAuthMiddleware gates a handler behind the admin token. It is
// applied to mutating routes only; reads and the chat path stay open.
func AdminAuthMiddleware(authorizer *admin.Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authorizer.Authorize(r.Header.Get(admin.TokenHeader)); err != nil {
				slog.WarnContext(r.Context(), "admin authorization failed",
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", GetRequestID(r.Context()),
					"remote_addr", r.RemoteAddr,
				)

				errResp := types.NewAuthenticationError(err.Error())
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(errResp)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
