package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transaction lifecycle. Every started session must reach exactly one of
// commit-then-end, abort-then-end, or end. The session is owned exclusively
// by the call chain that started it; reuse after ending is undefined behavior
// delegated to the driver.

// StartTransaction opens a session on the shared client and begins a
// transaction. It fails when the repository was constructed without a client
// handle.
func (r *DocumentRepository[T, PT]) StartTransaction(ctx context.Context) (mongo.Session, error) {
	if r.client == nil {
		return nil, errors.New("repository has no client handle: transactions are unavailable")
	}
	session, err := r.client.StartSession()
	if err != nil {
		return nil, r.normalize(ctx, err)
	}
	if err := session.StartTransaction(); err != nil {
		session.EndSession(ctx)
		return nil, r.normalize(ctx, err)
	}
	return session, nil
}

// StartClientTransaction is an alias for StartTransaction kept for callers
// that coordinate multi-repository work on the shared client.
func (r *DocumentRepository[T, PT]) StartClientTransaction(ctx context.Context) (mongo.Session, error) {
	return r.StartTransaction(ctx)
}

// CommitClientTransaction commits the transaction and always ends the
// session, commit failure included.
func (r *DocumentRepository[T, PT]) CommitClientTransaction(ctx context.Context, session mongo.Session) error {
	defer session.EndSession(ctx)
	if err := session.CommitTransaction(mongo.NewSessionContext(ctx, session)); err != nil {
		return r.normalize(ctx, err)
	}
	return nil
}

// AbortClientTransaction aborts the transaction and always ends the session,
// abort failure included.
func (r *DocumentRepository[T, PT]) AbortClientTransaction(ctx context.Context, session mongo.Session) error {
	defer session.EndSession(ctx)
	if err := session.AbortTransaction(mongo.NewSessionContext(ctx, session)); err != nil {
		return r.normalize(ctx, err)
	}
	return nil
}

// EndClientTransaction ends the session unconditionally, for callers that
// decided neither commit nor abort applies.
func (r *DocumentRepository[T, PT]) EndClientTransaction(ctx context.Context, session mongo.Session) {
	session.EndSession(ctx)
}
