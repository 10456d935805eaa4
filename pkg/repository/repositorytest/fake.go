// Package repositorytest provides in-memory fakes of the mongo driver
// surfaces the repository layer drives, for behavior tests without a live
// server.
package repositorytest

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection is a fake collection with overridable behavior per method.
// Methods without a configured function panic when reached, making
// unexpected driver calls fail loudly.
type Collection struct {
	CollectionName string

	FindOneFn          func(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	FindFn             func(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	AggregateFn        func(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
	CountFn            func(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	DistinctFn         func(ctx context.Context, fieldName string, filter interface{}, opts ...*options.DistinctOptions) ([]interface{}, error)
	InsertOneFn        func(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	InsertManyFn       func(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	UpdateOneFn        func(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	UpdateManyFn       func(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	FindOneAndUpdateFn func(ctx context.Context, filter, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
	DeleteOneFn        func(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	DeleteManyFn       func(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

func (f *Collection) Name() string {
	if f.CollectionName == "" {
		return "fake"
	}
	return f.CollectionName
}

func (f *Collection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	return f.FindOneFn(ctx, filter, opts...)
}

func (f *Collection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	return f.FindFn(ctx, filter, opts...)
}

func (f *Collection) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	return f.AggregateFn(ctx, pipeline, opts...)
}

func (f *Collection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return f.CountFn(ctx, filter, opts...)
}

func (f *Collection) Distinct(ctx context.Context, fieldName string, filter interface{}, opts ...*options.DistinctOptions) ([]interface{}, error) {
	return f.DistinctFn(ctx, fieldName, filter, opts...)
}

func (f *Collection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return f.InsertOneFn(ctx, document, opts...)
}

func (f *Collection) InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	return f.InsertManyFn(ctx, documents, opts...)
}

func (f *Collection) UpdateOne(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return f.UpdateOneFn(ctx, filter, update, opts...)
}

func (f *Collection) UpdateMany(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return f.UpdateManyFn(ctx, filter, update, opts...)
}

func (f *Collection) FindOneAndUpdate(ctx context.Context, filter, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	return f.FindOneAndUpdateFn(ctx, filter, update, opts...)
}

func (f *Collection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return f.DeleteOneFn(ctx, filter, opts...)
}

func (f *Collection) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return f.DeleteManyFn(ctx, filter, opts...)
}

// Session embeds mongo.Session to satisfy the interface and records the
// lifecycle calls made against it. Methods outside the lifecycle panic if
// reached.
type Session struct {
	mongo.Session

	Started   int
	Commits   int
	Aborts    int
	Ended     int
	CommitErr error
	AbortErr  error
}

func (s *Session) StartTransaction(...*options.TransactionOptions) error {
	s.Started++
	return nil
}

func (s *Session) CommitTransaction(context.Context) error {
	s.Commits++
	return s.CommitErr
}

func (s *Session) AbortTransaction(context.Context) error {
	s.Aborts++
	return s.AbortErr
}

func (s *Session) EndSession(context.Context) { s.Ended++ }

// Client satisfies the repository's client seam with a canned session and
// ping result.
type Client struct {
	SessionValue *Session
	PingErr      error
}

func (c *Client) StartSession(...*options.SessionOptions) (mongo.Session, error) {
	return c.SessionValue, nil
}

func (c *Client) Ping(ctx context.Context, rp *readpref.ReadPref) error {
	return c.PingErr
}

// SingleResult builds a driver SingleResult carrying doc, or err when doc is
// nil.
func SingleResult(t *testing.T, doc interface{}, err error) *mongo.SingleResult {
	t.Helper()
	if doc == nil {
		doc = bson.D{}
	}
	return mongo.NewSingleResultFromDocument(doc, err, nil)
}

// Cursor builds a driver cursor over the given documents.
func Cursor(t *testing.T, docs ...interface{}) *mongo.Cursor {
	t.Helper()
	cursor, err := mongo.NewCursorFromDocuments(docs, nil, nil)
	if err != nil {
		t.Fatalf("building cursor: %v", err)
	}
	return cursor
}
