// Package repository provides a generic data-access layer over a MongoDB
// collection: paged and lean reads, relation expansion, full-text search,
// distinct values, bulk mutation, transactional optimistic-concurrency
// updates, and a uniform error taxonomy.
package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/observability/logger"
)

// DocumentRepository is a generic repository bound to one collection.
// T is the document struct; PT is *T constrained to the Entity capabilities.
// An instance is created once per entity type and is safe for concurrent use:
// it holds no per-call state.
type DocumentRepository[T any, PT Entity[T]] struct {
	coll      Collection
	client    Client
	relations map[string]string
	logger    logger.Logger
	logErrors bool
}

// Options configures optional repository behavior. Client is required only
// for transaction operations; Relations maps populate field names to the
// collection the relation lives in (the field name itself is used when
// unmapped).
type Options struct {
	Client    Client
	Logger    logger.Logger
	LogErrors bool
	Relations map[string]string
}

// New creates a repository for the given collection. The collection handle is
// required; construction fails fast without one.
func New[T any, PT Entity[T]](coll Collection, opts Options) (*DocumentRepository[T, PT], error) {
	if coll == nil {
		return nil, errors.New("repository requires a collection handle")
	}
	log := opts.Logger
	if log == nil {
		log = logger.NopLogger{}
	}
	return &DocumentRepository[T, PT]{
		coll:      coll,
		client:    opts.Client,
		relations: opts.Relations,
		logger:    log,
		logErrors: opts.LogErrors,
	}, nil
}

// normalize funnels every raw store failure through the single error
// taxonomy, optionally logging before the normalized error escapes.
func (r *DocumentRepository[T, PT]) normalize(ctx context.Context, err error) error {
	var repoErr *Error
	if errors.As(err, &repoErr) {
		return repoErr
	}
	mapped := fromDriverError(err)
	if r.logErrors {
		r.logger.WithContext(ctx).Error("database operation failed",
			"collection", r.coll.Name(),
			"status", mapped.StatusCode,
			"error", err,
		)
	}
	return mapped
}

// sessionCtx binds ctx to sess when a session is supplied.
func (r *DocumentRepository[T, PT]) sessionCtx(ctx context.Context, sess mongo.Session) context.Context {
	if sess == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, sess)
}

// ---- Read operations ----

// Find returns documents matching filter, paged server-side. Limit defaults
// to DefaultLimit, skip to 0.
func (r *DocumentRepository[T, PT]) Find(ctx context.Context, filter Filter, opts FindOptions, projection Projection) ([]T, error) {
	if err := projection.Validate(); err != nil {
		return nil, &Error{Message: err.Error(), StatusCode: http.StatusBadRequest}
	}
	findOpts := options.Find().
		SetSkip(nonNegative(opts.Skip)).
		SetLimit(opts.normalizedLimit())
	if sortDoc := sortDocument(opts.Sort); sortDoc != nil {
		findOpts.SetSort(sortDoc)
	}
	if projDoc := projectionDocument(projection); projDoc != nil {
		findOpts.SetProjection(projDoc)
	}

	cursor, err := r.coll.Find(r.sessionCtx(ctx, opts.Session), toBSON(filter), findOpts)
	if err != nil {
		return nil, r.normalize(ctx, err)
	}
	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, r.normalize(ctx, err)
	}
	return results, nil
}

// FindLean returns plain documents (bson.M) instead of hydrated entities and
// supports relation expansion through Populate/PopulateSelect. It runs within
// the supplied session when one is given.
func (r *DocumentRepository[T, PT]) FindLean(ctx context.Context, filter Filter, opts FindOptions, projection Projection) ([]bson.M, error) {
	if err := projection.Validate(); err != nil {
		return nil, &Error{Message: err.Error(), StatusCode: http.StatusBadRequest}
	}
	cursor, err := r.coll.Aggregate(r.sessionCtx(ctx, opts.Session), r.buildPipeline(filter, opts, projection))
	if err != nil {
		return nil, r.normalize(ctx, err)
	}
	results := []bson.M{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, r.normalize(ctx, err)
	}
	return results, nil
}

// FindPaginated returns one page of hydrated documents with pagination
// metadata. It scopes every query to non-deleted documents by adding
// deleted=false to the filter (the lean variant does not). Total comes from a
// second count query over the same filter.
func (r *DocumentRepository[T, PT]) FindPaginated(ctx context.Context, filter Filter, opts FindOptions, projection Projection) (*Page[T], error) {
	scoped := make(Filter, len(filter)+1)
	for field, value := range filter {
		scoped[field] = value
	}
	scoped["deleted"] = false

	data, err := r.Find(ctx, scoped, opts, projection)
	if err != nil {
		return nil, err
	}
	total, err := r.Count(ctx, scoped)
	if err != nil {
		return nil, err
	}
	return NewPage(data, nonNegative(opts.Skip), total), nil
}

// FindPaginatedLean returns one page of plain documents with pagination
// metadata. Unlike FindPaginated it does not inject the soft-delete
// predicate; the caller's filter is passed through as-is.
func (r *DocumentRepository[T, PT]) FindPaginatedLean(ctx context.Context, filter Filter, opts FindOptions, projection Projection) (*Page[bson.M], error) {
	data, err := r.FindLean(ctx, filter, opts, projection)
	if err != nil {
		return nil, err
	}
	total, err := r.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return NewPage(data, nonNegative(opts.Skip), total), nil
}

// FindByID returns the document with the given identifier, failing with a
// not-found error when it does not exist. This is the one read path that
// treats absence as an error.
func (r *DocumentRepository[T, PT]) FindByID(ctx context.Context, id primitive.ObjectID, opts FindOptions, projection Projection) (*T, error) {
	if err := projection.Validate(); err != nil {
		return nil, &Error{Message: err.Error(), StatusCode: http.StatusBadRequest}
	}
	if opts.Populate != "" {
		return r.findOneByPipeline(ctx, Filter{"_id": id}, opts, projection, NewNotFound(id))
	}

	findOpts := options.FindOne()
	if projDoc := projectionDocument(projection); projDoc != nil {
		findOpts.SetProjection(projDoc)
	}
	out := PT(new(T))
	err := r.coll.FindOne(r.sessionCtx(ctx, opts.Session), bson.M{"_id": id}, findOpts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NewNotFound(id)
	}
	if err != nil {
		return nil, r.normalize(ctx, err)
	}
	return (*T)(out), nil
}

// FindByIDLean returns the document with the given identifier as plain data,
// failing with a not-found error when it does not exist.
func (r *DocumentRepository[T, PT]) FindByIDLean(ctx context.Context, id primitive.ObjectID, opts FindOptions) (bson.M, error) {
	opts.Limit = 1
	docs, err := r.FindLean(ctx, Filter{"_id": id}, opts, nil)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, NewNotFound(id)
	}
	return docs[0], nil
}

// FindOne returns the first document matching filter, or nil when none
// matches. Absence is a normal result here, in contrast to FindByID.
func (r *DocumentRepository[T, PT]) FindOne(ctx context.Context, filter Filter, opts FindOptions, projection Projection) (*T, error) {
	if err := projection.Validate(); err != nil {
		return nil, &Error{Message: err.Error(), StatusCode: http.StatusBadRequest}
	}
	if opts.Populate != "" {
		return r.findOneByPipeline(ctx, filter, opts, projection, nil)
	}

	findOpts := options.FindOne()
	if sortDoc := sortDocument(opts.Sort); sortDoc != nil {
		findOpts.SetSort(sortDoc)
	}
	if projDoc := projectionDocument(projection); projDoc != nil {
		findOpts.SetProjection(projDoc)
	}
	out := PT(new(T))
	err := r.coll.FindOne(r.sessionCtx(ctx, opts.Session), toBSON(filter), findOpts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, r.normalize(ctx, err)
	}
	return (*T)(out), nil
}

// FindOneLean returns the first matching document as plain data, or nil when
// none matches.
func (r *DocumentRepository[T, PT]) FindOneLean(ctx context.Context, filter Filter, opts FindOptions, projection Projection) (bson.M, error) {
	opts.Limit = 1
	docs, err := r.FindLean(ctx, filter, opts, projection)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

// findOneByPipeline serves the single-document read paths that need relation
// expansion. notFound, when non-nil, is returned on absence; otherwise
// absence yields nil.
func (r *DocumentRepository[T, PT]) findOneByPipeline(ctx context.Context, filter Filter, opts FindOptions, projection Projection, notFound *Error) (*T, error) {
	opts.Limit = 1
	cursor, err := r.coll.Aggregate(r.sessionCtx(ctx, opts.Session), r.buildPipeline(filter, opts, projection))
	if err != nil {
		return nil, r.normalize(ctx, err)
	}
	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, r.normalize(ctx, err)
	}
	if len(results) == 0 {
		if notFound != nil {
			return nil, notFound
		}
		return nil, nil
	}
	return &results[0], nil
}

// FullTextSearch returns documents whose field matches text as a
// case-insensitive regular expression.
func (r *DocumentRepository[T, PT]) FullTextSearch(ctx context.Context, text, field string) ([]T, error) {
	filter := Filter{field: primitive.Regex{Pattern: text, Options: "i"}}
	return r.Find(ctx, filter, FindOptions{}, nil)
}

// Count returns the number of documents matching filter.
func (r *DocumentRepository[T, PT]) Count(ctx context.Context, filter Filter) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, toBSON(filter))
	if err != nil {
		return 0, r.normalize(ctx, err)
	}
	return total, nil
}

// DistinctValues returns the distinct values of field across documents
// matching the optional filter.
func (r *DocumentRepository[T, PT]) DistinctValues(ctx context.Context, field string, filter Filter) ([]interface{}, error) {
	values, err := r.coll.Distinct(ctx, field, toBSON(filter))
	if err != nil {
		return nil, r.normalize(ctx, err)
	}
	return values, nil
}

// ---- Write operations ----

// Create persists one document and returns it with its generated identifier
// and timestamps set.
func (r *DocumentRepository[T, PT]) Create(ctx context.Context, entity PT, opts ...WriteOptions) (PT, error) {
	if entity == nil {
		return nil, errors.New("entity cannot be nil")
	}
	r.prepareForInsert(entity, time.Now().UTC())

	var wo WriteOptions
	if len(opts) > 0 {
		wo = opts[0]
	}
	result, err := r.coll.InsertOne(r.sessionCtx(ctx, wo.Session), entity)
	if err != nil {
		return nil, r.normalize(ctx, err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		entity.SetID(oid)
	}
	return entity, nil
}

// CreateMany bulk-inserts entities with the store's all-or-nothing bulk
// semantics and returns them with identifiers and timestamps set.
func (r *DocumentRepository[T, PT]) CreateMany(ctx context.Context, entities []PT, opts WriteOptions) ([]PT, error) {
	if len(entities) == 0 {
		return nil, errors.New("entities cannot be empty")
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(entities))
	for i, entity := range entities {
		if entity == nil {
			return nil, fmt.Errorf("entity at index %d is nil", i)
		}
		r.prepareForInsert(entity, now)
		docs[i] = entity
	}

	result, err := r.coll.InsertMany(r.sessionCtx(ctx, opts.Session), docs)
	if err != nil {
		return nil, r.normalize(ctx, err)
	}
	for i, insertedID := range result.InsertedIDs {
		if oid, ok := insertedID.(primitive.ObjectID); ok && i < len(entities) {
			entities[i].SetID(oid)
		}
	}
	return entities, nil
}

func (r *DocumentRepository[T, PT]) prepareForInsert(entity PT, now time.Time) {
	if entity.GetID().IsZero() {
		entity.SetID(primitive.NewObjectID())
	}
	if stamped, ok := any(entity).(Timestamped); ok {
		stamped.SetCreatedAt(now)
		stamped.SetUpdatedAt(now)
	}
}

// UpdateOne applies update to the first document matching filter and returns
// the modified count. Zero matches is a normal result, not an error.
func (r *DocumentRepository[T, PT]) UpdateOne(ctx context.Context, filter Filter, update interface{}, opts WriteOptions) (int64, error) {
	result, err := r.coll.UpdateOne(r.sessionCtx(ctx, opts.Session), toBSON(filter), update)
	if err != nil {
		return 0, r.normalize(ctx, err)
	}
	return result.ModifiedCount, nil
}

// UpdateMany applies update to every document matching filter and returns the
// modified count. Zero matches is a normal result, not an error.
func (r *DocumentRepository[T, PT]) UpdateMany(ctx context.Context, filter Filter, update interface{}, opts WriteOptions) (int64, error) {
	result, err := r.coll.UpdateMany(r.sessionCtx(ctx, opts.Session), toBSON(filter), update)
	if err != nil {
		return 0, r.normalize(ctx, err)
	}
	return result.ModifiedCount, nil
}

// FindOneAndUpdate atomically updates the first document matching filter and
// returns it (post-update when opts.New, pre-update otherwise). With
// opts.Upsert a document is created when none matches. Returns nil when
// nothing matched and no upsert was requested.
func (r *DocumentRepository[T, PT]) FindOneAndUpdate(ctx context.Context, filter Filter, update interface{}, opts UpdateOptions) (*T, error) {
	findOpts := options.FindOneAndUpdate().SetUpsert(opts.Upsert)
	if opts.New {
		findOpts.SetReturnDocument(options.After)
	} else {
		findOpts.SetReturnDocument(options.Before)
	}

	out := PT(new(T))
	err := r.coll.FindOneAndUpdate(r.sessionCtx(ctx, opts.Session), toBSON(filter), update, findOpts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, r.normalize(ctx, err)
	}
	return (*T)(out), nil
}

// UpdateByID applies a field update to the document with the given identifier
// under optimistic concurrency control, inside a transaction:
//
//   - the current document is read inside the session; absence aborts with a
//     not-found error;
//   - when update carries a __v value that differs from the stored version,
//     the transaction aborts with a concurrency conflict. Omitting __v skips
//     the version check entirely (a caller-visible gap kept from the original
//     contract);
//   - on success the update is applied with the version incremented by
//     exactly one, committed, and the updated document returned.
//
// The session is ended on every exit path; abort failures are logged, never
// silently dropped.
func (r *DocumentRepository[T, PT]) UpdateByID(ctx context.Context, id primitive.ObjectID, update Filter) (*T, error) {
	if r.client == nil {
		return nil, errors.New("repository has no client handle: transactions are unavailable")
	}
	session, err := r.client.StartSession()
	if err != nil {
		return nil, r.normalize(ctx, err)
	}
	defer session.EndSession(ctx)

	if err := session.StartTransaction(); err != nil {
		return nil, r.normalize(ctx, err)
	}
	sc := mongo.NewSessionContext(ctx, session)

	current := PT(new(T))
	if err := r.coll.FindOne(sc, bson.M{"_id": id}).Decode(current); err != nil {
		r.abort(sc, session)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFound(id)
		}
		return nil, r.normalize(ctx, err)
	}

	if raw, ok := update["__v"]; ok {
		if version, numeric := asInt64(raw); numeric && version != current.GetVersion() {
			r.abort(sc, session)
			return nil, NewConflict()
		}
	}

	set := make(bson.M, len(update)+2)
	for field, value := range update {
		if field == "__v" || field == "_id" {
			continue
		}
		set[field] = value
	}
	set["__v"] = current.GetVersion() + 1
	if _, ok := any(current).(Timestamped); ok {
		set["updatedAt"] = time.Now().UTC()
	}

	updated := PT(new(T))
	err = r.coll.FindOneAndUpdate(sc, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(updated)
	if err != nil {
		r.abort(sc, session)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFound(id)
		}
		return nil, r.normalize(ctx, err)
	}

	if err := session.CommitTransaction(sc); err != nil {
		r.abort(sc, session)
		return nil, r.normalize(ctx, err)
	}
	return (*T)(updated), nil
}

// DeleteOne removes the first document matching filter. Returns true iff a
// document was deleted.
func (r *DocumentRepository[T, PT]) DeleteOne(ctx context.Context, filter Filter) (bool, error) {
	result, err := r.coll.DeleteOne(ctx, toBSON(filter))
	if err != nil {
		return false, r.normalize(ctx, err)
	}
	return result.DeletedCount > 0, nil
}

// DeleteMany removes every document matching filter. Returns true iff at
// least one document was deleted.
func (r *DocumentRepository[T, PT]) DeleteMany(ctx context.Context, filter Filter, opts WriteOptions) (bool, error) {
	result, err := r.coll.DeleteMany(r.sessionCtx(ctx, opts.Session), toBSON(filter))
	if err != nil {
		return false, r.normalize(ctx, err)
	}
	return result.DeletedCount > 0, nil
}

// ---- Auxiliary ----

// Aggregate executes the pipeline as-is and returns raw result rows.
func (r *DocumentRepository[T, PT]) Aggregate(ctx context.Context, pipeline mongo.Pipeline, opts ...*options.AggregateOptions) ([]bson.M, error) {
	cursor, err := r.coll.Aggregate(ctx, pipeline, opts...)
	if err != nil {
		return nil, r.normalize(ctx, err)
	}
	results := []bson.M{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, r.normalize(ctx, err)
	}
	return results, nil
}

// IsDatabaseConnected probes connection liveness. It never returns an error:
// any failure, including a missing client handle, reports false.
func (r *DocumentRepository[T, PT]) IsDatabaseConnected(ctx context.Context) bool {
	if r.client == nil {
		return false
	}
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.client.Ping(probeCtx, readpref.Primary()) == nil
}

// ---- pipeline helpers ----

// buildPipeline assembles the aggregation pipeline for lean and populated
// reads: match, sort, skip, limit, optional lookup+unwind, then projection.
func (r *DocumentRepository[T, PT]) buildPipeline(filter Filter, opts FindOptions, projection Projection) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: toBSON(filter)}},
	}
	if sortDoc := sortDocument(opts.Sort); sortDoc != nil {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sortDoc}})
	}
	if skip := nonNegative(opts.Skip); skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: skip}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$limit", Value: opts.normalizedLimit()}})
	pipeline = append(pipeline, r.lookupStages(opts)...)
	if projDoc := projectionDocument(projection); projDoc != nil {
		pipeline = append(pipeline, bson.D{{Key: "$project", Value: projDoc}})
	}
	return pipeline
}

// lookupStages expands the populate relation. With a PopulateSelect the
// lookup runs a sub-pipeline that projects only the selected fields of the
// related document.
func (r *DocumentRepository[T, PT]) lookupStages(opts FindOptions) []bson.D {
	if opts.Populate == "" {
		return nil
	}
	from := r.relations[opts.Populate]
	if from == "" {
		from = opts.Populate
	}

	var lookup bson.D
	if opts.PopulateSelect != "" {
		selected := bson.D{}
		for _, field := range strings.Fields(opts.PopulateSelect) {
			selected = append(selected, bson.E{Key: field, Value: 1})
		}
		lookup = bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: from},
			{Key: "let", Value: bson.D{{Key: "fk", Value: "$" + opts.Populate}}},
			{Key: "pipeline", Value: mongo.Pipeline{
				bson.D{{Key: "$match", Value: bson.D{
					{Key: "$expr", Value: bson.D{{Key: "$eq", Value: bson.A{"$_id", "$$fk"}}}},
				}}},
				bson.D{{Key: "$project", Value: selected}},
			}},
			{Key: "as", Value: opts.Populate},
		}}}
	} else {
		lookup = bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: from},
			{Key: "localField", Value: opts.Populate},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: opts.Populate},
		}}}
	}

	unwind := bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$" + opts.Populate},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
	return []bson.D{lookup, unwind}
}

// abort rolls the transaction back, logging failures rather than dropping
// them.
func (r *DocumentRepository[T, PT]) abort(ctx context.Context, session mongo.Session) {
	if err := session.AbortTransaction(ctx); err != nil {
		r.logger.Error("failed to abort transaction",
			"collection", r.coll.Name(),
			"error", err,
		)
	}
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// asInt64 coerces the numeric types a decoded update payload may carry.
func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
