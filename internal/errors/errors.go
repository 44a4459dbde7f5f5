// Package errors provides structured API error responses for the
// report service HTTP surface.
package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"reportcli/internal/operations"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	ErrRunInProgress     = New(http.StatusConflict, "RUN_IN_PROGRESS", "A report run is already executing")
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")
	ErrInternalServer    = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// NotFoundError creates a not found error with details
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource), resource)
}

// FromPipelineError maps a report run failure to an API error. Input
// problems surface as 422 so a caller can fix the data file; infrastructure
// failures stay 500.
func FromPipelineError(err error) *APIError {
	if err == nil {
		return nil
	}

	kind := operations.KindOf(err)
	switch kind {
	case operations.KindFileNotFound:
		return NewWithDetails(http.StatusNotFound, "DATA_FILE_NOT_FOUND", "Data file not found", err.Error())
	case operations.KindParse, operations.KindValidation:
		return NewWithDetails(http.StatusUnprocessableEntity, "DATA_INVALID", "Data file could not be processed", err.Error())
	case operations.KindTimeout:
		return NewWithDetails(http.StatusGatewayTimeout, "RUN_TIMEOUT", "Report run timed out", err.Error())
	case operations.KindCancelled:
		return NewWithDetails(http.StatusServiceUnavailable, "RUN_CANCELLED", "Report run was cancelled", err.Error())
	default:
		return NewWithDetails(http.StatusInternalServerError, "RUN_FAILED", "Report run failed", err.Error())
	}
}
