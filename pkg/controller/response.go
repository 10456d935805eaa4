package controller

import (
	"net/http"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/server/router"
)

// SuccessResponse wraps successful response data in a consistent envelope.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
}

// Success sends data with HTTP 200.
func Success(c router.Context, data interface{}) error {
	return c.JSON(http.StatusOK, SuccessResponse{
		Data:      data,
		RequestID: getRequestID(c.Request().Context()),
	})
}

// Created sends data with HTTP 201, typically after creating a resource.
func Created(c router.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:      data,
		RequestID: getRequestID(c.Request().Context()),
	})
}

// NoContent sends HTTP 204 with no body.
func NoContent(c router.Context) error {
	return c.JSON(http.StatusNoContent, nil)
}

// Error sends the mapped error response for err.
func Error(c router.Context, err error) error {
	status, body := MapError(c.Request().Context(), err)
	return c.JSON(status, body)
}
