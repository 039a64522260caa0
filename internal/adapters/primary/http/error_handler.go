package http

import (
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/lorrc/employee-identifier/internal/adapters/primary/http/middleware"
	apperrors "github.com/lorrc/employee-identifier/internal/core/errors"
)

// Messages shown to API clients.
const (
	MsgNoCollaborationsFound = "No collaborations found in the provided data"
	MsgErrorProcessingFile   = "Error processing file"
)

// ErrorResponse is the standard JSON error response format
type ErrorResponse struct {
	Error     string                 `json:"error"`
	Code      string                 `json:"code,omitempty"`
	RequestID string                 `json:"requestId,omitempty"`
	Fields    map[string][]string    `json:"fields,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger      *slog.Logger
	showDetails bool
}

// NewErrorHandler creates a new error handler with the given logger.
// With showDetails set, the underlying error text is included in responses;
// keep it off outside development.
func NewErrorHandler(logger *slog.Logger, showDetails bool) *ErrorHandler {
	return &ErrorHandler{logger: logger, showDetails: showDetails}
}

// Handle processes an error and writes the appropriate HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	statusCode, response := h.mapError(err)
	response.RequestID = mw.GetRequestID(r.Context())

	if h.showDetails && statusCode >= http.StatusInternalServerError {
		if response.Details == nil {
			response.Details = map[string]interface{}{}
		}
		response.Details["cause"] = causeOf(err).Error()
	}

	h.logError(r, statusCode, err)
	WriteJSON(w, statusCode, response)
}

// mapError converts errors to HTTP status codes and responses
func (h *ErrorHandler) mapError(err error) (int, ErrorResponse) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode, ErrorResponse{
			Error:   appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		}
	}

	var validationErrs *apperrors.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest, ErrorResponse{
			Error:  validationErrs.First(),
			Code:   "VALIDATION_ERROR",
			Fields: validationErrs.Errors,
		}
	}

	if errors.Is(err, apperrors.ErrInvalidFormData) {
		return http.StatusBadRequest, ErrorResponse{
			Error: "Request must be multipart/form-data with a file field",
			Code:  "VALIDATION_ERROR",
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error: "An unexpected error occurred",
		Code:  "INTERNAL_ERROR",
	}
}

// logError logs the error with appropriate context
func (h *ErrorHandler) logError(r *http.Request, statusCode int, err error) {
	logAttrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
		"error", causeOf(err).Error(),
	}

	ctx := r.Context()
	switch {
	case statusCode >= 500:
		h.logger.ErrorContext(ctx, "server error", logAttrs...)
	case statusCode >= 400:
		h.logger.WarnContext(ctx, "client error", logAttrs...)
	default:
		h.logger.InfoContext(ctx, "request error", logAttrs...)
	}
}

// causeOf returns the error an AppError wraps, since its Error() is the
// client-facing message.
func causeOf(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Err != nil {
		return appErr.Err
	}
	return err
}

// HandleError Helper function to handle errors inline in handlers
// Usage: if HandleError(w, r, err, h.errorHandler) { return }
func HandleError(w http.ResponseWriter, r *http.Request, err error, handler *ErrorHandler) bool {
	if err != nil {
		handler.Handle(w, r, err)
		return true
	}
	return false
}
