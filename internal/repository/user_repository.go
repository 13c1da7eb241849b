package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"user-management-be/internal/entities"
)

//go:generate mockgen -source=user_repository.go -destination=mocks/mock_user_repository.go -package=mocks

// ErrNotFound is returned when no record has the requested identifier.
var ErrNotFound = errors.New("user not found")

// UpdateResult reports how many records an update matched and how many it
// actually changed.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// UserRepository defines the interface for user store operations
type UserRepository interface {
	FindAll(ctx context.Context) ([]*entities.User, error)
	FindPage(ctx context.Context, skip, limit int64) ([]*entities.User, error)
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entities.User, error)
	// Create stores user, assigning a fresh identifier when user.ID is zero.
	Create(ctx context.Context, user *entities.User) error
	UpdateByID(ctx context.Context, id primitive.ObjectID, changes entities.UserChanges) (UpdateResult, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
	Ping(ctx context.Context) error
}
