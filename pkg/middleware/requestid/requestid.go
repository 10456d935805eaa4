// Package requestid correlates requests with a unique ID.
package requestid

import (
	"context"

	"github.com/google/uuid"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/middleware"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/server/router"
)

// Header is the HTTP header carrying the request ID.
const Header = "X-Request-ID"

// RequestID returns middleware that propagates the inbound X-Request-ID or
// generates a UUID when absent. The ID is stored in the request context and
// echoed on the response.
func RequestID() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			requestID := c.Request().Header.Get(Header)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			c.Set(string(middleware.RequestIDKey), requestID)
			c.Response().Header().Set(Header, requestID)

			ctx := context.WithValue(c.Request().Context(), middleware.RequestIDKey, requestID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// Get extracts the request ID from a context, or "" when absent.
func Get(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(middleware.RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
