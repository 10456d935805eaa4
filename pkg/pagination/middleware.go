package pagination

import (
	"context"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/controller"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/server/router"
)

type contextKey struct{}

// Middleware parses pagination parameters for list endpoints and stores them
// in the request context. Invalid parameters are rejected with 400 before the
// handler runs.
func Middleware(cfg Config) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			params, err := Parse(c.Request().URL.Query(), cfg)
			if err != nil {
				return controller.Error(c, err)
			}
			ctx := context.WithValue(c.Request().Context(), contextKey{}, params)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// FromContext returns the parsed parameters stored by Middleware, or defaults
// when the middleware did not run.
func FromContext(ctx context.Context) *Params {
	if params, ok := ctx.Value(contextKey{}).(*Params); ok {
		return params
	}
	return &Params{Limit: DefaultConfig().DefaultLimit}
}
