package utils

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, data, message)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func respond(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// RespondValidationError answers 400 with the offending fields when the
// binding error came from the validator, and a generic message otherwise
// (malformed JSON, wrong types).
func RespondValidationError(c *gin.Context, err error) {
	fields := ValidationDetails(err)
	if len(fields) == 0 {
		RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	c.JSON(http.StatusBadRequest, APIResponse{
		Status:  "error",
		Code:    http.StatusBadRequest,
		Message: "Validation error",
		TraceID: traceID(c),
		Data:    gin.H{"errors": fields},
	})
}

func HandleServiceError(c *gin.Context, err error) {
	var appErr *AppError

	switch {
	case errors.As(err, &appErr):
		RespondError(c, appErr.Code, appErr.Message)
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, ErrInvalidToken):
		RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, ErrInvalidWebhookAuth):
		RespondError(c, http.StatusUnauthorized, "Invalid webhook secret or signature")
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusConflict, "User already exists")
	case errors.Is(err, ErrUserProfileNotFound):
		RespondError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrGatewayUnavailable):
		slog.ErrorContext(c.Request.Context(), "payment gateway error", "error", err, "trace_id", traceID(c))
		RespondError(c, http.StatusBadGateway, "Payment provider unavailable")
	case errors.Is(err, ErrDatabaseError):
		slog.ErrorContext(c.Request.Context(), "database error", "error", err, "trace_id", traceID(c))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		slog.ErrorContext(c.Request.Context(), "unhandled error", "error", err, "trace_id", traceID(c))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
