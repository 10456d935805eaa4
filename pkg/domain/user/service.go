package user

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/auth"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/observability/logger"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/pagination"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/repository"
)

// Service implements account use cases on top of the users repository.
type Service struct {
	repo   *Repository
	tokens *auth.TokenManager
	logger logger.Logger
}

// NewService builds the user service.
func NewService(repo *Repository, tokens *auth.TokenManager, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{repo: repo, tokens: tokens, logger: log}
}

// Register creates a new account with a bcrypt-hashed password. A duplicate
// email surfaces as a 400 from the unique index on the collection.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	roles := in.Roles
	if len(roles) == 0 {
		roles = []string{"user"}
	}

	created, err := s.repo.Create(ctx, &User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Roles:    roles,
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).Info("user registered", "user_id", created.GetID().Hex())
	return created, nil
}

// Login verifies credentials and issues a JWT for the account. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	account, err := s.repo.FindOne(ctx, repository.Filter{"email": in.Email, "deleted": false}, repository.FindOptions{}, nil)
	if err != nil {
		return nil, err
	}
	if account == nil || !auth.VerifyPassword(account.Password, in.Password) {
		return nil, &repository.Error{
			Message:    "invalid email or password",
			StatusCode: http.StatusUnauthorized,
		}
	}

	token, err := s.tokens.Issue(account.GetID().Hex(), account.Roles)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: account}, nil
}

// Get returns a single account by ID.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return s.repo.FindByID(ctx, id, repository.FindOptions{}, nil)
}

// List returns a page of accounts, excluding soft-deleted ones.
func (s *Service) List(ctx context.Context, params *pagination.Params) (*repository.Page[User], error) {
	return s.repo.FindPaginated(ctx, params.Filter, params.FindOptions(), params.Projection)
}

// Update applies a partial profile update with the optimistic concurrency
// check when the input carries a version.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*User, error) {
	update := in.toUpdate()
	if len(update) == 0 {
		return nil, &repository.Error{
			Message:    "update carries no fields",
			StatusCode: http.StatusBadRequest,
		}
	}
	return s.repo.UpdateByID(ctx, id, update)
}

// Delete soft-deletes an account. It returns false when no live account
// matched the ID.
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
