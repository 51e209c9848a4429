package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types
const (
	ErrValidation          = "VALIDATION_ERROR"
	ErrConflict            = "CONFLICT"
	ErrAuth                = "AUTH_ERROR"
	ErrNotFound            = "NOT_FOUND"
	ErrInsufficientCredits = "INSUFFICIENT_CREDITS"
	ErrUpstream            = "UPSTREAM_ERROR"
	ErrPayment             = "PAYMENT_ERROR"
	ErrAlreadyProcessed    = "ALREADY_PROCESSED"
	ErrInternalServer      = "INTERNAL_SERVER_ERROR"
)

// AppError is the application error carried from services up to the
// request boundary, where it is rendered as {"success":false,"message":...}.
type AppError struct {
	Type       string
	StatusCode int
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(errorType string, statusCode int, message string) *AppError {
	return &AppError{
		Type:       errorType,
		StatusCode: statusCode,
		Message:    message,
	}
}

func NewValidationError(message string) *AppError {
	return New(ErrValidation, http.StatusBadRequest, message)
}

func NewConflictError(message string) *AppError {
	return New(ErrConflict, http.StatusConflict, message)
}

func NewAuthError(message string) *AppError {
	return New(ErrAuth, http.StatusUnauthorized, message)
}

func NewNotFoundError(message string) *AppError {
	return New(ErrNotFound, http.StatusNotFound, message)
}

func NewInsufficientCreditsError(message string) *AppError {
	return New(ErrInsufficientCredits, http.StatusBadRequest, message)
}

// NewUpstreamError wraps a failure from an external API or gateway,
// keeping the underlying message for the caller.
func NewUpstreamError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrUpstream,
		StatusCode: http.StatusBadGateway,
		Message:    message,
		Err:        err,
	}
}

func NewPaymentError(message string) *AppError {
	return New(ErrPayment, http.StatusBadRequest, message)
}

func NewAlreadyProcessedError(message string) *AppError {
	return New(ErrAlreadyProcessed, http.StatusBadRequest, message)
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errorType string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// StatusCode extracts the HTTP status from an error, defaulting to 500.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Message extracts the user-facing message from an error.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
