package gin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/server/router"
)

func do(r *GinRouter, method, path string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRoutesAndParams(t *testing.T) {
	r := NewRouter()
	r.GET("/things/:id", func(c router.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"id": c.Param("id"), "q": c.Query("q")})
	})

	rec := do(r, http.MethodGet, "/things/42?q=x", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["id"] != "42" || body["q"] != "x" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestBindParsesJSONBody(t *testing.T) {
	r := NewRouter()
	r.POST("/things", func(c router.Context) error {
		var in struct {
			Name string `json:"name"`
		}
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, map[string]string{"name": in.Name})
	})

	rec := do(r, http.MethodPost, "/things", `{"name":"widget"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMiddlewareRunsInRegistrationOrder(t *testing.T) {
	r := NewRouter()
	var order []string
	mw := func(name string) router.MiddlewareFunc {
		return func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				order = append(order, name)
				return next(c)
			}
		}
	}
	r.Use(mw("first"))
	r.Use(mw("second"))
	r.GET("/ordered", func(c router.Context) error {
		order = append(order, "handler")
		return c.String(http.StatusOK, "ok")
	}, mw("route"))

	do(r, http.MethodGet, "/ordered", "")
	want := []string{"first", "second", "route", "handler"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestUnhandledErrorBecomes500(t *testing.T) {
	r := NewRouter()
	r.GET("/broken", func(c router.Context) error {
		return http.ErrAbortHandler
	})

	rec := do(r, http.MethodGet, "/broken", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for an unhandled error, got %d", rec.Code)
	}
}

func TestGroupPrefixAndMiddleware(t *testing.T) {
	r := NewRouter()
	var hits int
	counter := func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			hits++
			return next(c)
		}
	}

	api := r.Group("/api/v1", counter)
	api.GET("/things", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	r.GET("/bare", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	if rec := do(r, http.MethodGet, "/api/v1/things", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on the grouped route, got %d", rec.Code)
	}
	if hits != 1 {
		t.Fatalf("expected the group middleware to run once, got %d", hits)
	}

	do(r, http.MethodGet, "/bare", "")
	if hits != 1 {
		t.Fatal("group middleware must not apply to routes outside the group")
	}
}

func TestContextValuesRoundTrip(t *testing.T) {
	r := NewRouter()
	r.GET("/values", func(c router.Context) error {
		c.Set("k", "v")
		value, _ := c.Get("k").(string)
		return c.String(http.StatusOK, value)
	})

	rec := do(r, http.MethodGet, "/values", "")
	if rec.Body.String() != "v" {
		t.Fatalf("expected the stored value back, got %q", rec.Body.String())
	}
}
