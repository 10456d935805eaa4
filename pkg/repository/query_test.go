package repository

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestProjectionValidate(t *testing.T) {
	cases := []struct {
		name       string
		projection Projection
		valid      bool
	}{
		{"nil projection", nil, true},
		{"inclusion only", Projection{"title": 1, "body": 1}, true},
		{"exclusion only", Projection{"title": 0, "body": 0}, true},
		{"mixed modes", Projection{"title": 1, "body": 0}, false},
		{"id exclusion inside inclusion", Projection{"title": 1, "_id": 0}, true},
		{"invalid mode", Projection{"title": 2}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.projection.Validate()
			if tc.valid && err != nil {
				t.Fatalf("expected a valid projection, got %v", err)
			}
			if !tc.valid && err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestSortDocumentIsDeterministic(t *testing.T) {
	doc := sortDocument(map[string]int{"b": -1, "a": 1, "c": 1})
	want := bson.D{{Key: "a", Value: 1}, {Key: "b", Value: -1}, {Key: "c", Value: 1}}
	if len(doc) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(doc))
	}
	for i := range want {
		if doc[i] != want[i] {
			t.Fatalf("field %d = %+v, want %+v", i, doc[i], want[i])
		}
	}

	if sortDocument(nil) != nil {
		t.Fatal("an empty sort renders no document")
	}
}

func TestNormalizedLimit(t *testing.T) {
	if got := (FindOptions{}).normalizedLimit(); got != DefaultLimit {
		t.Fatalf("unset limit must default to %d, got %d", DefaultLimit, got)
	}
	if got := (FindOptions{Limit: -3}).normalizedLimit(); got != DefaultLimit {
		t.Fatalf("negative limit must default to %d, got %d", DefaultLimit, got)
	}
	if got := (FindOptions{Limit: 25}).normalizedLimit(); got != 25 {
		t.Fatalf("explicit limit must be kept, got %d", got)
	}
}

func TestToBSON(t *testing.T) {
	if got := toBSON(nil); len(got) != 0 {
		t.Fatalf("a nil filter matches everything, got %v", got)
	}
	filter := Filter{"title": "x"}
	if got := toBSON(filter); got["title"] != "x" {
		t.Fatalf("filter fields must pass through, got %v", got)
	}
}

func TestDefaultUpdateOptions(t *testing.T) {
	opts := DefaultUpdateOptions()
	if !opts.New || opts.Upsert {
		t.Fatalf("expected {new: true, upsert: false}, got %+v", opts)
	}
}
