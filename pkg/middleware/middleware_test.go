package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/middleware/cors"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/middleware/ratelimit"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/middleware/recovery"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/middleware/requestid"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/observability/logger"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/server/router"
	ginrouter "github.com/Muhammadsajid2/nest-rest-api/pkg/server/router/gin"
)

func serve(r *ginrouter.GinRouter, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequestIDIsGenerated(t *testing.T) {
	r := ginrouter.NewRouter()
	r.Use(requestid.RequestID())

	var seen string
	r.GET("/ping", func(c router.Context) error {
		seen = requestid.Get(c.Request().Context())
		return c.String(http.StatusOK, "ok")
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if seen == "" {
		t.Fatal("expected a generated request ID in the handler context")
	}
	if rec.Header().Get(requestid.Header) != seen {
		t.Fatalf("the response header must echo the ID, got %q", rec.Header().Get(requestid.Header))
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	r := ginrouter.NewRouter()
	r.Use(requestid.RequestID())
	r.GET("/ping", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestid.Header, "client-supplied")
	rec := serve(r, req)
	if rec.Header().Get(requestid.Header) != "client-supplied" {
		t.Fatalf("the inbound ID must be reused, got %q", rec.Header().Get(requestid.Header))
	}
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	r := ginrouter.NewRouter()
	r.Use(recovery.Recovery(logger.NopLogger{}))
	r.GET("/panic", func(c router.Context) error {
		panic("boom")
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after a panic, got %d", rec.Code)
	}
}

func TestCORSPreflightViaNoRoute(t *testing.T) {
	r := ginrouter.NewRouter()
	r.Use(cors.Middleware(cors.DefaultConfig()))
	r.NoRoute(func(c router.Context) error {
		return c.String(http.StatusNotFound, "no route")
	})
	r.GET("/data", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodOptions, "/data", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := serve(r, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected the preflight to be answered with 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatal("expected the allowed methods on the preflight response")
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = false
	cfg.AllowOrigins = []string{"https://app.example.com"}

	r := ginrouter.NewRouter()
	r.Use(cors.Middleware(cfg))
	r.GET("/data", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := serve(r, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://app.example.com" {
		t.Fatalf("expected the origin to be allowed, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = serve(r, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("an unlisted origin must not be allowed")
	}
}

func TestRateLimitRejectsBeyondBurst(t *testing.T) {
	cfg := ratelimit.Config{Enabled: true, RequestsPerSecond: 1, Burst: 2}
	limiter := ratelimit.NewTokenBucketLimiter(cfg.RequestsPerSecond, cfg.Burst)

	r := ginrouter.NewRouter()
	r.Use(ratelimit.Middleware(cfg, limiter))
	r.GET("/limited", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		statuses = append(statuses, serve(r, req).Code)
	}
	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("the burst must be admitted, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("expected 429 past the burst, got %v", statuses)
	}
}

func TestRateLimitSeparatesClients(t *testing.T) {
	cfg := ratelimit.Config{Enabled: true, RequestsPerSecond: 1, Burst: 1}
	limiter := ratelimit.NewTokenBucketLimiter(cfg.RequestsPerSecond, cfg.Burst)

	r := ginrouter.NewRouter()
	r.Use(ratelimit.Middleware(cfg, limiter))
	r.GET("/limited", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	first := httptest.NewRequest(http.MethodGet, "/limited", nil)
	first.RemoteAddr = "198.51.100.1:1000"
	if serve(r, first).Code != http.StatusOK {
		t.Fatal("the first client's burst must be admitted")
	}

	second := httptest.NewRequest(http.MethodGet, "/limited", nil)
	second.Header.Set("X-Forwarded-For", "198.51.100.2, 10.0.0.1")
	if serve(r, second).Code != http.StatusOK {
		t.Fatal("a different client must have its own bucket")
	}
}
