package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/gigvault/escrowd/pkg/errors"
	"github.com/gigvault/escrowd/pkg/logger"
	"github.com/gigvault/escrowd/pkg/validator"
)

// Response is the standard JSON response envelope used across all handlers.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse represents an error in the standard response format.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// If encoding fails, the error is logged but headers are already sent so nothing can be done.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a standardized error response based on the error type.
// It handles AppError, the package sentinels, and logs internal server errors.
// It prefers the request-scoped logger from context (set by the RequestLogger
// middleware) over the fallback logger.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	// Extract correlation ID from context to include in error responses.
	requestID := logger.CorrelationIDFromContext(r.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		WriteJSON(w, appErr.Status, Response{
			Error: &ErrorResponse{Code: appErr.Code, Message: appErr.Message, RequestID: requestID},
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code = "NOT_FOUND"
		message = "resource not found"
	case errors.Is(err, apperrors.ErrInvalidState):
		code = "INVALID_STATE"
		message = err.Error()
	case errors.Is(err, apperrors.ErrInvalidInput):
		code = "INVALID_INPUT"
		message = err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		code = "FORBIDDEN"
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		code = "UNAUTHORIZED"
		message = "authentication required"
	}

	if status == http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, Response{
		Error: &ErrorResponse{Code: code, Message: message, RequestID: requestID},
	})
}

// PaginatedResponse is a generic paginated list response envelope.
type PaginatedResponse[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewPaginatedResponse constructs a PaginatedResponse from the given data, total
// count, page, and per-page values. It computes TotalPages and HasNext.
func NewPaginatedResponse[T any](data []T, totalCount, page, perPage int) PaginatedResponse[T] {
	totalPages := totalCount / perPage
	if totalCount%perPage > 0 {
		totalPages++
	}
	if data == nil {
		data = []T{}
	}
	return PaginatedResponse[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// WriteValidationError writes a standardized validation error response.
// It handles ValidationError from the validator package and returns field-level errors.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, Response{
		Error: &ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()},
	})
}

// ParseID validates that the given path parameter is a non-negative integer
// identifier and returns it. If invalid, it writes a 400 Bad Request response
// with code INVALID_PARAMETER and returns false, signaling the caller to
// return early.
func ParseID(w http.ResponseWriter, param string) (int64, bool) {
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id < 0 {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:    "INVALID_PARAMETER",
				Message: "invalid id: " + param,
			},
		})
		return 0, false
	}
	return id, true
}
