package auth

import (
	"context"
	"strings"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/controller"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/middleware"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/server/router"
)

// Middleware returns middleware that requires a valid Bearer token and stores
// the authenticated user ID in the request context.
func Middleware(manager *TokenManager) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			header := c.Request().Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				return controller.Error(c, controller.NewUnauthorizedError("missing bearer token"))
			}

			claims, err := manager.Validate(token)
			if err != nil {
				return controller.Error(c, controller.NewUnauthorizedError("invalid or expired token"))
			}

			c.Set(string(middleware.UserIDKey), claims.Subject)
			ctx := context.WithValue(c.Request().Context(), middleware.UserIDKey, claims.Subject)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// UserID returns the authenticated user ID from a context, or "" when the
// request was not authenticated.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(middleware.UserIDKey).(string); ok {
		return id
	}
	return ""
}
