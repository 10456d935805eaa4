package repository

import (
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Filter represents field-based match criteria. Values may be plain values
// (equality) or operator documents ($gte, $in, ...); the repository passes
// them to the store unmodified.
type Filter map[string]interface{}

// Projection maps field paths to inclusion (1) or exclusion (0).
// A projection must not mix inclusion and exclusion modes, with the usual
// exception of excluding _id inside an inclusion projection.
type Projection map[string]int

// Validate reports whether the projection mixes inclusion and exclusion.
func (p Projection) Validate() error {
	includes, excludes := 0, 0
	for field, mode := range p {
		switch mode {
		case 1:
			includes++
		case 0:
			if field != "_id" {
				excludes++
			}
		default:
			return fmt.Errorf("projection value for %q must be 0 or 1, got %d", field, mode)
		}
	}
	if includes > 0 && excludes > 0 {
		return fmt.Errorf("projection cannot mix inclusion and exclusion fields")
	}
	return nil
}

// DefaultLimit is the page size applied when a query does not specify one.
const DefaultLimit = 100

// FindOptions carries paging, ordering, relation expansion, and session
// binding for read operations.
type FindOptions struct {
	Skip  int64
	Limit int64
	// Sort maps field path to direction: 1 ascending, -1 descending.
	Sort map[string]int
	// Populate names a relation field holding an object ID to expand.
	Populate string
	// PopulateSelect is a space-separated list of fields to keep on the
	// expanded relation. Empty keeps the whole related document.
	PopulateSelect string
	// Session optionally binds the read to an existing transaction session.
	Session mongo.Session
}

// WriteOptions carries session binding for write operations.
type WriteOptions struct {
	Session mongo.Session
}

// UpdateOptions configures FindOneAndUpdate behavior.
type UpdateOptions struct {
	// New returns the post-update document when true, the pre-update
	// document otherwise.
	New bool
	// Upsert inserts a new document when no document matches the filter.
	Upsert bool
	Session mongo.Session
}

// DefaultUpdateOptions mirrors the conventional {new: true, upsert: false}.
func DefaultUpdateOptions() UpdateOptions {
	return UpdateOptions{New: true, Upsert: false}
}

// normalizedLimit applies the default page size to unset limits.
func (o FindOptions) normalizedLimit() int64 {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

// sortDocument renders the sort map as an ordered bson.D. Fields are emitted
// in lexical order so the query shape is deterministic.
func sortDocument(sortMap map[string]int) bson.D {
	if len(sortMap) == 0 {
		return nil
	}
	fields := make([]string, 0, len(sortMap))
	for field := range sortMap {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	doc := make(bson.D, 0, len(fields))
	for _, field := range fields {
		doc = append(doc, bson.E{Key: field, Value: sortMap[field]})
	}
	return doc
}

// projectionDocument renders a validated projection as bson.D.
func projectionDocument(projection Projection) bson.D {
	if len(projection) == 0 {
		return nil
	}
	fields := make([]string, 0, len(projection))
	for field := range projection {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	doc := make(bson.D, 0, len(fields))
	for _, field := range fields {
		doc = append(doc, bson.E{Key: field, Value: projection[field]})
	}
	return doc
}

// toBSON converts a Filter into the driver's filter document. A nil filter
// matches everything.
func toBSON(filter Filter) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return bson.M(filter)
}
