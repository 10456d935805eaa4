package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identifiable is implemented by documents that carry a MongoDB object ID.
type Identifiable interface {
	GetID() primitive.ObjectID
	SetID(id primitive.ObjectID)
}

// Versioned is implemented by documents that carry a monotonically increasing
// version counter used for optimistic locking.
type Versioned interface {
	GetVersion() int64
	SetVersion(version int64)
}

// Timestamped is implemented by documents that track creation and update times.
// The repository stamps these automatically on Create and CreateMany.
type Timestamped interface {
	SetCreatedAt(t time.Time)
	SetUpdatedAt(t time.Time)
}

// Entity constrains a document pointer type to the two capabilities every
// repository entity must have: an identifier and a version counter.
type Entity[T any] interface {
	*T
	Identifiable
	Versioned
}

// Model is the embeddable base for repository entities. It provides the
// identifier, the version counter (stored under the __v field, incremented by
// exactly one on each optimistic update), the soft-delete marker, and
// timestamps.
type Model struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Version   int64              `bson:"__v" json:"__v"`
	Deleted   bool               `bson:"deleted" json:"deleted"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (m *Model) GetID() primitive.ObjectID   { return m.ID }
func (m *Model) SetID(id primitive.ObjectID) { m.ID = id }
func (m *Model) GetVersion() int64           { return m.Version }
func (m *Model) SetVersion(v int64)          { m.Version = v }
func (m *Model) SetCreatedAt(t time.Time)    { m.CreatedAt = t }
func (m *Model) SetUpdatedAt(t time.Time)    { m.UpdatedAt = t }
