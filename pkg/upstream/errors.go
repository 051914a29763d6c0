package upstream

import "fmt"

// UpstreamError reports a failed completion attempt. StatusCode is 0 for
// transport-level failures that never produced an HTTP response.
type UpstreamError struct {
	// StatusCode is the upstream HTTP status, or 0 when the request
	// failed before a response arrived.
	StatusCode int

	// Body is the upstream error response body, truncated for logging.
	Body string

	// Cause is the underlying transport error, if any.
	Cause error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upstream request failed: %v", e.Cause)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// Unwrap returns the underlying cause error.
func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
