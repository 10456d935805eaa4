// Package cors implements cross-origin resource sharing headers.
package cors

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/server/router"
)

// Config configures CORS behavior. With AllowAllOrigins set, AllowOrigins is
// ignored.
type Config struct {
	Enabled          bool
	AllowAllOrigins  bool
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultConfig returns permissive defaults suitable for development.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}
}

// Middleware returns CORS middleware for the given configuration. Preflight
// OPTIONS requests are answered with 204.
func Middleware(cfg Config) router.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(cfg.AllowOrigins))
	for _, origin := range cfg.AllowOrigins {
		allowed[strings.ToLower(origin)] = struct{}{}
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if !cfg.Enabled {
				return next(c)
			}

			origin := c.Request().Header.Get("Origin")
			if origin == "" {
				return next(c)
			}

			header := c.Response().Header()
			switch {
			case cfg.AllowAllOrigins:
				header.Set("Access-Control-Allow-Origin", "*")
			default:
				if _, ok := allowed[strings.ToLower(origin)]; !ok {
					return next(c)
				}
				header.Set("Access-Control-Allow-Origin", origin)
				header.Add("Vary", "Origin")
			}

			if cfg.AllowCredentials {
				header.Set("Access-Control-Allow-Credentials", "true")
			}
			if len(cfg.ExposeHeaders) > 0 {
				header.Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ", "))
			}

			if c.Request().Method == http.MethodOptions {
				header.Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowMethods, ", "))
				header.Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowHeaders, ", "))
				if cfg.MaxAge > 0 {
					header.Set("Access-Control-Max-Age", strconv.Itoa(int(cfg.MaxAge.Seconds())))
				}
				c.Response().WriteHeader(http.StatusNoContent)
				return nil
			}

			return next(c)
		}
	}
}
