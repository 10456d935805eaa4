// Package recovery converts handler panics into HTTP 500 responses.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/middleware/requestid"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/observability/logger"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/server/router"
)

// Recovery returns middleware that recovers from panics, logs the panic with
// its stack trace, and responds with HTTP 500 when nothing was written yet.
func Recovery(log logger.Logger) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			defer func() {
				if recovered := recover(); recovered != nil {
					requestID := requestid.Get(c.Request().Context())
					log.Error("panic recovered",
						"request_id", requestID,
						"panic", recovered,
						"stack", string(debug.Stack()),
					)

					if !c.Response().Written() {
						_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
							"error":      "internal_server_error",
							"message":    "an unexpected error occurred",
							"request_id": requestID,
						})
					}
				}
			}()
			return next(c)
		}
	}
}
