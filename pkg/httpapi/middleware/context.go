// Package middleware provides the HTTP middleware chain: panic recovery,
// request logging, request IDs, CORS, metrics, and admin authorization.
package middleware

// contextKey is a private type for context values set by middleware.
type contextKey string

const (
	// RequestIDKey is the context key for the request ID.
	RequestIDKey contextKey = "request_id"
)
