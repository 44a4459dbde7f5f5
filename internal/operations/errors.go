package operations

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure
type ErrorKind string

const (
	KindFileNotFound ErrorKind = "file_not_found"
	KindParse        ErrorKind = "parse"
	KindRender       ErrorKind = "render"
	KindConversion   ErrorKind = "conversion"
	KindSend         ErrorKind = "send"
	KindValidation   ErrorKind = "validation"
	KindTimeout      ErrorKind = "timeout"
	KindCancelled    ErrorKind = "cancelled"
	KindExecution    ErrorKind = "execution"
)

// PipelineError represents a failure in one step of a report run
type PipelineError struct {
	Kind    ErrorKind `json:"kind"`
	Step    string    `json:"step,omitempty"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e == nil {
		return "unknown pipeline error"
	}
	if e.Step != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Step, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError creates a new pipeline error of the given kind
func NewError(kind ErrorKind, step, message string, cause error) *PipelineError {
	return &PipelineError{
		Kind:    kind,
		Step:    step,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError creates a validation error for a step
func NewValidationError(step, message string) *PipelineError {
	return &PipelineError{Kind: KindValidation, Step: step, Message: message}
}

// NewTimeoutError creates a timeout error for a step
func NewTimeoutError(step, timeout string) *PipelineError {
	return &PipelineError{
		Kind:    KindTimeout,
		Step:    step,
		Message: fmt.Sprintf("step exceeded timeout of %s", timeout),
	}
}

// NewCancellationError creates a cancellation error for a step
func NewCancellationError(step string) *PipelineError {
	return &PipelineError{Kind: KindCancelled, Step: step, Message: "run was cancelled"}
}

// WrapError wraps an error with step context. An existing PipelineError keeps
// its kind; anything else becomes an execution error.
func WrapError(err error, step, message string) *PipelineError {
	if err == nil {
		return nil
	}

	var pErr *PipelineError
	if errors.As(err, &pErr) {
		if pErr.Step == "" {
			pErr.Step = step
		}
		return pErr
	}

	return &PipelineError{
		Kind:    KindExecution,
		Step:    step,
		Message: message,
		Cause:   err,
	}
}

// KindOf returns the kind of the error, or KindExecution for untyped errors
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var pErr *PipelineError
	if errors.As(err, &pErr) {
		return pErr.Kind
	}
	return KindExecution
}

// IsKind reports whether err is a pipeline error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
