package task

import (
	"context"
	"net/http"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/observability/logger"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/pagination"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/repository"
)

// Service implements task use cases on top of the tasks repository.
type Service struct {
	repo   *Repository
	logger logger.Logger
}

// NewService builds the task service.
func NewService(repo *Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{repo: repo, logger: log}
}

// Create stores a new task in the open state.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Task, error) {
	task := &Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      StatusOpen,
	}
	if in.Assignee != "" {
		assignee, err := primitive.ObjectIDFromHex(in.Assignee)
		if err != nil {
			return nil, &repository.Error{
				Message:    "invalid assignee ID " + in.Assignee,
				StatusCode: http.StatusBadRequest,
			}
		}
		task.Assignee = assignee
	}
	return s.repo.Create(ctx, task)
}

// Get returns a single task by ID.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*Task, error) {
	return s.repo.FindByID(ctx, id, repository.FindOptions{}, nil)
}

// GetLean returns a single task as raw document data, with the assignee
// joined in. Used when the response should carry the populated document
// rather than the typed entity.
func (s *Service) GetLean(ctx context.Context, id primitive.ObjectID, populate, populateSelect string) (bson.M, error) {
	return s.repo.FindByIDLean(ctx, id, repository.FindOptions{
		Populate:       populate,
		PopulateSelect: populateSelect,
	})
}

// List returns a page of tasks, excluding soft-deleted ones.
func (s *Service) List(ctx context.Context, params *pagination.Params) (*repository.Page[Task], error) {
	return s.repo.FindPaginated(ctx, params.Filter, params.FindOptions(), params.Projection)
}

// Search returns tasks whose title matches the text, case-insensitively.
func (s *Service) Search(ctx context.Context, text string) ([]Task, error) {
	if text == "" {
		return nil, &repository.Error{
			Message:    "search text must not be empty",
			StatusCode: http.StatusBadRequest,
		}
	}
	return s.repo.FullTextSearch(ctx, text, "title")
}

// Statuses returns the distinct statuses currently in use, sorted.
func (s *Service) Statuses(ctx context.Context) ([]string, error) {
	values, err := s.repo.DistinctValues(ctx, "status", repository.Filter{"deleted": false})
	if err != nil {
		return nil, err
	}
	statuses := make([]string, 0, len(values))
	for _, v := range values {
		if status, ok := v.(string); ok {
			statuses = append(statuses, status)
		}
	}
	sort.Strings(statuses)
	return statuses, nil
}

// Update applies a partial task update with the optimistic concurrency check
// when the input carries a version.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*Task, error) {
	update, err := in.toUpdate()
	if err != nil {
		return nil, err
	}
	if len(update) == 0 {
		return nil, &repository.Error{
			Message:    "update carries no fields",
			StatusCode: http.StatusBadRequest,
		}
	}
	updated, err := s.repo.UpdateByID(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if status, ok := update["status"]; ok {
		s.logger.WithContext(ctx).Info("task status changed",
			"task_id", id.Hex(),
			"status", status,
		)
	}
	return updated, nil
}

// Assign transfers a task to a user atomically, bumping the version.
func (s *Service) Assign(ctx context.Context, id, assignee primitive.ObjectID) (*Task, error) {
	return s.repo.UpdateByID(ctx, id, repository.Filter{"assignee": assignee})
}

// Delete soft-deletes a task. It returns false when no live task matched the
// ID.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	modified, err := s.repo.UpdateOne(ctx,
		repository.Filter{"_id": id, "deleted": false},
		repository.Filter{"$set": repository.Filter{"deleted": true}},
		repository.WriteOptions{},
	)
	if err != nil {
		return false, err
	}
	return modified > 0, nil
}
