// Package user implements account management: registration, login, and
// profile maintenance backed by the users collection.
package user

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/repository"
)

// CollectionName is the mongo collection users are stored in.
const CollectionName = "users"

// User is a registered account. The password field holds a bcrypt hash and is
// never serialized to JSON.
type User struct {
	repository.Model `bson:",inline"`

	Name     string   `bson:"name" json:"name"`
	Email    string   `bson:"email" json:"email"`
	Password string   `bson:"password" json:"-"`
	Roles    []string `bson:"roles" json:"roles"`
}

// Repository is the document repository specialized to users.
type Repository = repository.DocumentRepository[User, *User]

// NewRepository builds the users repository.
func NewRepository(coll repository.Collection, opts repository.Options) (*Repository, error) {
	return repository.New[User](coll, opts)
}

// RegisterInput is the payload accepted by Register.
type RegisterInput struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Roles    []string `json:"roles"`
}

// LoginInput is the payload accepted by Login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateInput is the partial profile update accepted by Update. Version, when
// set, enables the optimistic concurrency check.
type UpdateInput struct {
	Name    *string  `json:"name"`
	Email   *string  `json:"email"`
	Roles   []string `json:"roles"`
	Version *int64   `json:"__v"`
}

func (in UpdateInput) toUpdate() repository.Filter {
	update := repository.Filter{}
	if in.Name != nil {
		update["name"] = *in.Name
	}
	if in.Email != nil {
		update["email"] = *in.Email
	}
	if in.Roles != nil {
		update["roles"] = in.Roles
	}
	if in.Version != nil {
		update["__v"] = *in.Version
	}
	return update
}

// LoginResult carries the issued token together with the authenticated user.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// parseID converts a path parameter to an ObjectID, surfacing a 400 on
// malformed input.
func parseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, &repository.Error{
			Message:    "invalid user ID " + raw,
			StatusCode: http.StatusBadRequest,
		}
	}
	return id, nil
}
