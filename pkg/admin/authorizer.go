// Package admin implements shared-secret authorization for mutating
// configuration operations.
package admin

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"sync"
)

// TokenHeader is the request header carrying the admin token.
const TokenHeader = "X-Admin-Token"

// ErrUnauthorized is returned when a presented token does not match the
// configured secret.
var ErrUnauthorized = errors.New("admin token missing or invalid")

// Authorizer validates admin tokens. An empty configured token puts the
// authorizer in open mode: every request is authorized. This mirrors a
// development deployment with no secret set; production configs are
// expected to set one.
type Authorizer struct {
	mu    sync.RWMutex
	token string

	logger *slog.Logger
}

// NewAuthorizer creates an Authorizer for the given shared secret.
// An empty token disables enforcement.
func NewAuthorizer(token string) *Authorizer {
	a := &Authorizer{
		token:  token,
		logger: slog.Default().With("component", "admin.auth"),
	}
	if token == "" {
		a.logger.Warn("admin token not set, mutating endpoints are unprotected")
	}
	return a
}

// Enforced reports whether a token is currently required.
func (a *Authorizer) Enforced() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token != ""
}

// Authorize checks a presented token. The comparison is exact and
// case-sensitive; timing-safe so the secret cannot be probed byte by
// byte.
func (a *Authorizer) Authorize(presented string) error {
	a.mu.RLock()
	token := a.token
	a.mu.RUnlock()

	if token == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// SetToken replaces the shared secret. Used by config hot reload; an
// empty token switches the authorizer to open mode.
func (a *Authorizer) SetToken(token string) {
	a.mu.Lock()
	changed := a.token != token
	a.token = token
	a.mu.Unlock()

	if changed {
		if token == "" {
			a.logger.Warn("admin token cleared, mutating endpoints are unprotected")
		} else {
			a.logger.Info("admin token updated")
		}
	}
}
