package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the marketplace error taxonomy. Service and repository
// code wraps these so callers can classify failures with errors.Is.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidState       = errors.New("invalid state")
	ErrPaymentMismatch    = errors.New("payment mismatch")
	ErrDeadlineNotReached = errors.New("deadline not reached")
	ErrNoFunds            = errors.New("no funds in escrow")
	ErrInternal           = errors.New("internal error")
)

// AppError is a structured application error with an HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error for a missing resource.
func NotFound(resource string, id any) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %v not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error for a malformed request. The request is
// rejected before any state is touched.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Unauthorized creates a 401 error for a caller identity mismatch.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// InvalidState creates a 409 error for an operation that is not valid in the
// record's current lifecycle stage, including all settle/refund/rate replays.
func InvalidState(message string) *AppError {
	return &AppError{
		Code:    "INVALID_STATE",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrInvalidState,
	}
}

// PaymentMismatch creates a 422 error for an amount tendered that does not
// equal the service price exactly.
func PaymentMismatch(expected, got int64) *AppError {
	return &AppError{
		Code:    "PAYMENT_MISMATCH",
		Message: fmt.Sprintf("payment must match service price: expected %d, got %d", expected, got),
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrPaymentMismatch,
	}
}

// DeadlineNotReached creates a 422 error for a refund attempted before the
// service deadline.
func DeadlineNotReached(message string) *AppError {
	return &AppError{
		Code:    "DEADLINE_NOT_REACHED",
		Message: message,
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrDeadlineNotReached,
	}
}

// NoFunds creates a 409 error for a refund attempted with nothing held in
// escrow for the service.
func NoFunds(serviceID int64) *AppError {
	return &AppError{
		Code:    "NO_FUNDS",
		Message: fmt.Sprintf("no funds in escrow for service %d", serviceID),
		Status:  http.StatusConflict,
		Err:     ErrNoFunds,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrNoFunds):
		return http.StatusConflict
	case errors.Is(err, ErrPaymentMismatch), errors.Is(err, ErrDeadlineNotReached):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
