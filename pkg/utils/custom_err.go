package utils

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrDatabaseError       = errors.New("database error")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrGatewayUnavailable  = errors.New("payment gateway error")
	ErrInvalidWebhookAuth  = errors.New("invalid webhook secret or signature")
	ErrUserProfileNotFound = errors.New("user profile not found")
)

// AppError is a domain failure that carries the HTTP status it maps to.
// Services return it at the point of violation and controllers pass it
// through HandleServiceError untouched.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewAppError(code int, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *AppError {
	return NewAppError(http.StatusNotFound, format, args...)
}

func Forbidden(format string, args ...any) *AppError {
	return NewAppError(http.StatusForbidden, format, args...)
}

func Conflict(format string, args ...any) *AppError {
	return NewAppError(http.StatusConflict, format, args...)
}

func BadRequest(format string, args ...any) *AppError {
	return NewAppError(http.StatusBadRequest, format, args...)
}

func PaymentRequired(format string, args ...any) *AppError {
	return NewAppError(http.StatusPaymentRequired, format, args...)
}

// StatusOf reports the HTTP status an error maps to, 500 when unknown.
func StatusOf(err error) int {
	var appErr *AppError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &appErr):
		return appErr.Code
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrInvalidWebhookAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrEmailAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrUserProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrGatewayUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
