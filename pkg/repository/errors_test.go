package repository

import (
	"errors"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestDuplicateKeyCarriesOffendingKey(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"keyValue": bson.M{"email": "taken@example.com"}})
	if err != nil {
		t.Fatalf("marshal raw: %v", err)
	}

	mapped := fromDriverError(mongo.WriteException{WriteErrors: mongo.WriteErrors{
		{Code: 11000, Raw: raw},
	}})
	if mapped.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", mapped.StatusCode)
	}
	want := `{"email": "taken@example.com"} already exists`
	if mapped.Message != want {
		t.Fatalf("expected %q, got %q", want, mapped.Message)
	}
}

func TestDuplicateKeyWithoutRawResponse(t *testing.T) {
	mapped := fromDriverError(mongo.WriteException{WriteErrors: mongo.WriteErrors{
		{Code: 11000},
	}})
	if mapped.StatusCode != http.StatusBadRequest || mapped.Message != "Duplicate key error" {
		t.Fatalf("unexpected mapping: %+v", mapped)
	}
}

func TestServerCodeTaxonomy(t *testing.T) {
	cases := []struct {
		code    int
		message string
	}{
		{11001, "Duplicate key error"},
		{67, "Invalid index specification"},
		{16755, "Cannot build index on a non-existing field"},
		{17280, "Index key too long"},
		{27, "Index not found"},
	}
	for _, tc := range cases {
		mapped := fromDriverError(mongo.CommandError{Code: int32(tc.code)})
		if mapped.StatusCode != http.StatusBadRequest {
			t.Fatalf("code %d: expected 400, got %d", tc.code, mapped.StatusCode)
		}
		if mapped.Message != tc.message {
			t.Fatalf("code %d: expected %q, got %q", tc.code, tc.message, mapped.Message)
		}
	}
}

func TestUnknownErrorsCollapseToInternal(t *testing.T) {
	mapped := fromDriverError(errors.New("socket was unexpectedly closed"))
	if mapped.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", mapped.StatusCode)
	}
	if mapped.Message != "Database operation failed" {
		t.Fatalf("the raw driver error must not leak, got %q", mapped.Message)
	}

	mapped = fromDriverError(mongo.CommandError{Code: 112, Message: "WriteConflict"})
	if mapped.StatusCode != http.StatusInternalServerError {
		t.Fatalf("an unmapped server code collapses to 500, got %d", mapped.StatusCode)
	}
}

func TestBulkWriteTaxonomy(t *testing.T) {
	mapped := fromDriverError(mongo.BulkWriteException{WriteErrors: []mongo.BulkWriteError{
		{WriteError: mongo.WriteError{Code: 11000}},
	}})
	if mapped.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bulk duplicate key, got %d", mapped.StatusCode)
	}
}

func TestErrorPredicates(t *testing.T) {
	if !IsNotFound(NewNotFound(primitive.NewObjectID())) {
		t.Fatal("IsNotFound must match the not-found error")
	}
	if !IsConflict(NewConflict()) {
		t.Fatal("IsConflict must match the conflict error")
	}
	if IsNotFound(NewConflict()) || IsConflict(errors.New("plain")) {
		t.Fatal("the predicates must not cross-match")
	}
}
