// Package task implements task tracking: CRUD, assignment to users, status
// transitions, and title search over the tasks collection.
package task

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/repository"
)

// CollectionName is the mongo collection tasks are stored in.
const CollectionName = "tasks"

// Task statuses. A task moves open -> in_progress -> done, or to cancelled
// from any non-terminal state.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusCancelled  = "cancelled"
)

// Task is a unit of work, optionally assigned to a user.
type Task struct {
	repository.Model `bson:",inline"`

	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Status      string             `bson:"status" json:"status"`
	Assignee    primitive.ObjectID `bson:"assignee,omitempty" json:"assignee,omitempty"`
}

// Repository is the document repository specialized to tasks.
type Repository = repository.DocumentRepository[Task, *Task]

// NewRepository builds the tasks repository. The assignee relation enables
// populate against the users collection.
func NewRepository(coll repository.Collection, opts repository.Options) (*Repository, error) {
	if opts.Relations == nil {
		opts.Relations = map[string]string{"assignee": "users"}
	}
	return repository.New[Task](coll, opts)
}

// CreateInput is the payload accepted by Create.
type CreateInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Assignee    string `json:"assignee"`
}

// UpdateInput is the partial task update accepted by Update. Version, when
// set, enables the optimistic concurrency check.
type UpdateInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Assignee    *string `json:"assignee"`
	Version     *int64  `json:"__v"`
}

func (in UpdateInput) toUpdate() (repository.Filter, error) {
	update := repository.Filter{}
	if in.Title != nil {
		update["title"] = *in.Title
	}
	if in.Description != nil {
		update["description"] = *in.Description
	}
	if in.Status != nil {
		if !validStatus(*in.Status) {
			return nil, &repository.Error{
				Message:    "invalid task status " + *in.Status,
				StatusCode: http.StatusBadRequest,
			}
		}
		update["status"] = *in.Status
	}
	if in.Assignee != nil {
		assignee, err := primitive.ObjectIDFromHex(*in.Assignee)
		if err != nil {
			return nil, &repository.Error{
				Message:    "invalid assignee ID " + *in.Assignee,
				StatusCode: http.StatusBadRequest,
			}
		}
		update["assignee"] = assignee
	}
	if in.Version != nil {
		update["__v"] = *in.Version
	}
	return update, nil
}

func validStatus(status string) bool {
	switch status {
	case StatusOpen, StatusInProgress, StatusDone, StatusCancelled:
		return true
	}
	return false
}

func parseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, &repository.Error{
			Message:    "invalid task ID " + raw,
			StatusCode: http.StatusBadRequest,
		}
	}
	return id, nil
}
