package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/middleware"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/repository"
)

// ErrorResponse is the consistent error payload for every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// MapError converts an application error to an HTTP status and response body.
// Normalized repository errors carry their own status; anything else is a 500
// with a generic message, never the raw error text.
func MapError(ctx context.Context, err error) (int, ErrorResponse) {
	requestID := getRequestID(ctx)

	var repoErr *repository.Error
	if errors.As(err, &repoErr) {
		return repoErr.StatusCode, ErrorResponse{
			Error:     errorCategory(repoErr.StatusCode),
			Message:   repoErr.Message,
			RequestID: requestID,
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error:     "internal_server_error",
		Message:   "an unexpected error occurred",
		RequestID: requestID,
	}
}

// NewValidationError builds a 400 application error.
func NewValidationError(message string) *repository.Error {
	return &repository.Error{Message: message, StatusCode: http.StatusBadRequest}
}

// NewUnauthorizedError builds a 401 application error.
func NewUnauthorizedError(message string) *repository.Error {
	return &repository.Error{Message: message, StatusCode: http.StatusUnauthorized}
}

// NewNotFoundError builds a 404 application error.
func NewNotFoundError(message string) *repository.Error {
	return &repository.Error{Message: message, StatusCode: http.StatusNotFound}
}

func getRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(middleware.RequestIDKey).(string); ok {
		return id
	}
	return ""
}

func errorCategory(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "validation_error"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	default:
		if status >= 500 {
			return "internal_server_error"
		}
		return "application_error"
	}
}
