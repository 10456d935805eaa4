// Package gin adapts gin-gonic/gin to the router contract.
package gin

import (
	"net/http"

	ginpkg "github.com/gin-gonic/gin"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/server/router"
)

// GinRouter implements router.Router on top of a gin engine.
type GinRouter struct {
	engine     *ginpkg.Engine
	group      *ginpkg.RouterGroup
	middleware []router.MiddlewareFunc
}

// NewRouter creates a GinRouter in release mode.
func NewRouter() *GinRouter {
	ginpkg.SetMode(ginpkg.ReleaseMode)
	return &GinRouter{engine: ginpkg.New()}
}

func (r *GinRouter) GET(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodGet, path, handler, middleware)
}

func (r *GinRouter) POST(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodPost, path, handler, middleware)
}

func (r *GinRouter) PUT(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodPut, path, handler, middleware)
}

func (r *GinRouter) DELETE(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodDelete, path, handler, middleware)
}

func (r *GinRouter) PATCH(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodPatch, path, handler, middleware)
}

// Group creates a route group sharing this router's middleware plus the given
// extras.
func (r *GinRouter) Group(prefix string, middleware ...router.MiddlewareFunc) router.Router {
	combined := append([]router.MiddlewareFunc{}, r.middleware...)
	combined = append(combined, middleware...)

	var group *ginpkg.RouterGroup
	if r.group == nil {
		group = r.engine.Group(prefix)
	} else {
		group = r.group.Group(prefix)
	}
	return &GinRouter{engine: r.engine, group: group, middleware: combined}
}

// Use appends middleware applied to every route registered afterwards.
func (r *GinRouter) Use(middleware ...router.MiddlewareFunc) {
	r.middleware = append(r.middleware, middleware...)
}

func (r *GinRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}

// NoRoute registers the fallback handler for unmatched paths, wrapped in the
// router's middleware chain. This is what lets CORS middleware answer
// preflight OPTIONS requests for routes registered under other methods.
func (r *GinRouter) NoRoute(handler router.HandlerFunc) {
	final := handler
	for i := len(r.middleware) - 1; i >= 0; i-- {
		final = r.middleware[i](final)
	}
	r.engine.NoRoute(func(c *ginpkg.Context) {
		if err := final(&ginContext{c: c}); err != nil && !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, ginpkg.H{"error": "internal_server_error"})
		}
	})
}

func (r *GinRouter) handle(method, path string, handler router.HandlerFunc, extra []router.MiddlewareFunc) {
	final := handler
	chain := append([]router.MiddlewareFunc{}, r.middleware...)
	chain = append(chain, extra...)
	for i := len(chain) - 1; i >= 0; i-- {
		final = chain[i](final)
	}

	ginHandler := func(c *ginpkg.Context) {
		if err := final(&ginContext{c: c}); err != nil && !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, ginpkg.H{"error": "internal_server_error"})
		}
	}

	if r.group != nil {
		r.group.Handle(method, path, ginHandler)
	} else {
		r.engine.Handle(method, path, ginHandler)
	}
}

// ginContext adapts *gin.Context to the router.Context contract.
type ginContext struct {
	c *ginpkg.Context
}

func (g *ginContext) Request() *http.Request      { return g.c.Request }
func (g *ginContext) SetRequest(r *http.Request)  { g.c.Request = r }
func (g *ginContext) Response() router.ResponseWriter {
	// gin's ResponseWriter already tracks status and written state.
	return g.c.Writer
}
func (g *ginContext) Param(name string) string { return g.c.Param(name) }
func (g *ginContext) Query(name string) string { return g.c.Query(name) }

func (g *ginContext) Bind(v interface{}) error { return g.c.ShouldBindJSON(v) }

func (g *ginContext) JSON(code int, v interface{}) error {
	g.c.JSON(code, v)
	return nil
}

func (g *ginContext) String(code int, s string) error {
	g.c.String(code, s)
	return nil
}

func (g *ginContext) Get(key string) interface{} {
	value, _ := g.c.Get(key)
	return value
}

func (g *ginContext) Set(key string, value interface{}) { g.c.Set(key, value) }
