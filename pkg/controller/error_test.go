package controller

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/middleware"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/repository"
)

func TestMapErrorKeepsRepositoryStatus(t *testing.T) {
	err := &repository.Error{Message: "No data found with ID abc", StatusCode: http.StatusNotFound}

	status, body := MapError(context.Background(), err)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if body.Error != "not_found" {
		t.Fatalf("expected the not_found category, got %q", body.Error)
	}
	if body.Message != "No data found with ID abc" {
		t.Fatalf("the normalized message must pass through, got %q", body.Message)
	}
}

func TestMapErrorHidesUnknownErrors(t *testing.T) {
	status, body := MapError(context.Background(), errors.New("pq: connection refused"))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body.Message == "pq: connection refused" {
		t.Fatal("the raw error text must not leak to clients")
	}
}

func TestMapErrorCarriesRequestID(t *testing.T) {
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")

	_, body := MapError(ctx, repository.NewConflict())
	if body.RequestID != "req-42" {
		t.Fatalf("expected the request ID, got %q", body.RequestID)
	}
	if body.Error != "conflict" {
		t.Fatalf("expected the conflict category, got %q", body.Error)
	}
}

func TestErrorCategories(t *testing.T) {
	cases := map[int]string{
		http.StatusBadRequest:          "validation_error",
		http.StatusUnauthorized:        "unauthorized",
		http.StatusForbidden:           "forbidden",
		http.StatusNotFound:            "not_found",
		http.StatusConflict:            "conflict",
		http.StatusBadGateway:          "internal_server_error",
		http.StatusTeapot:              "application_error",
	}
	for status, want := range cases {
		if got := errorCategory(status); got != want {
			t.Fatalf("category(%d) = %q, want %q", status, got, want)
		}
	}
}
