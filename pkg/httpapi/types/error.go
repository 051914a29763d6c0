package types

// ErrorResponse is the JSON error envelope returned for all error
// conditions, in the OpenAI error shape so existing client tooling can
// parse it.
type ErrorResponse struct {
	// Error contains the error details.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error.
	Type string `json:"type"`

	// Param is the name of the field that caused the error (if applicable).
	Param string `json:"param,omitempty"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`
}

// Error type constants.
const (
	// ErrorTypeInvalidRequest indicates a client-side error (400).
	ErrorTypeInvalidRequest = "invalid_request_error"

	// ErrorTypeAuthentication indicates an authentication failure (401).
	ErrorTypeAuthentication = "authentication_error"

	// ErrorTypeNotFound indicates a resource was not found (404).
	ErrorTypeNotFound = "not_found"

	// ErrorTypeServerError indicates an internal server error (500).
	ErrorTypeServerError = "server_error"

	// ErrorTypeBadGateway indicates an upstream provider error (502).
	ErrorTypeBadGateway = "bad_gateway"
)

// Error code constants for common error scenarios.
const (
	// CodeInvalidValue indicates a field has an invalid value.
	CodeInvalidValue = "invalid_value"

	// CodeInvalidJSON indicates the request body is not valid JSON.
	CodeInvalidJSON = "invalid_json"

	// CodeUnauthorized indicates a missing or invalid admin token.
	CodeUnauthorized = "unauthorized"

	// CodeConfigNotFound indicates the configuration version does not exist.
	CodeConfigNotFound = "config_not_found"

	// CodeUpstreamError indicates a failure from the upstream provider.
	CodeUpstreamError = "upstream_error"

	// CodeInternalError indicates an internal server error.
	CodeInternalError = "internal_error"
)

// NewErrorResponse creates a new error response with the given details.
func NewErrorResponse(message, errorType, param, code string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    errorType,
			Param:   param,
			Code:    code,
		},
	}
}

// NewInvalidRequestError creates an error response for invalid requests (400).
func NewInvalidRequestError(message, param, code string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeInvalidRequest, param, code)
}

// NewAuthenticationError creates an error response for auth failures (401).
func NewAuthenticationError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeAuthentication, "", CodeUnauthorized)
}

// NewNotFoundError creates an error response for missing resources (404).
func NewNotFoundError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeNotFound, "", CodeConfigNotFound)
}

// NewServerError creates an error response for internal server errors (500).
func NewServerError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeServerError, "", CodeInternalError)
}

// NewBadGatewayError creates an error response for upstream failures (502).
func NewBadGatewayError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeBadGateway, "", CodeUpstreamError)
}

// HTTPStatusCode returns the appropriate HTTP status code for the error type.
func (e *ErrorDetail) HTTPStatusCode() int {
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return 400
	case ErrorTypeAuthentication:
		return 401
	case ErrorTypeNotFound:
		return 404
	case ErrorTypeServerError:
		return 500
	case ErrorTypeBadGateway:
		return 502
	default:
		return 500
	}
}
