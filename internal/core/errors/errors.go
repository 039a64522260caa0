package errors

import (
	"errors"
	"fmt"
)

// Domain errors - these represent caller mistakes in the uploaded data
var (
	// Upload validation
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrInvalidFormData = errors.New("invalid multipart form")

	// Analysis outcomes
	ErrNoRecords             = errors.New("no valid records found")
	ErrNoCollaborationsFound = errors.New("no collaborations found in the provided data")

	// Generic
	ErrRateLimited = errors.New("rate limit exceeded")
)

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports a caller error in the uploaded data. These are
// answered with 400.
func NewValidationError(err error, message string, details map[string]interface{}) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "VALIDATION_ERROR",
		StatusCode: 400,
		Details:    details,
	}
}

func NewPayloadTooLargeError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "PAYLOAD_TOO_LARGE",
		StatusCode: 413,
	}
}

func NewRateLimitError() *AppError {
	return &AppError{
		Err:        ErrRateLimited,
		Message:    "Too many requests. Please try again later.",
		Code:       "RATE_LIMITED",
		StatusCode: 429,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}

// ValidationErrors holds multiple field validation errors
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
	order  []string
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make(map[string][]string),
	}
}

func (v *ValidationErrors) Add(field, message string) {
	if _, seen := v.Errors[field]; !seen {
		v.order = append(v.order, field)
	}
	v.Errors[field] = append(v.Errors[field], message)
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// First returns the first message that was added, or "" when there is none.
func (v *ValidationErrors) First() string {
	if len(v.order) == 0 {
		return ""
	}
	return v.Errors[v.order[0]][0]
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) have errors", len(v.Errors))
}
