package repository

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"user-management-be/internal/entities"
)

// InMemoryUserRepository keeps users in insertion order. It backs
// STORE_DRIVER=memory and the handler tests.
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users []*entities.User
}

func NewInMemoryUserRepository(seed ...*entities.User) *InMemoryUserRepository {
	repo := &InMemoryUserRepository{users: make([]*entities.User, 0, len(seed))}
	for _, user := range seed {
		u := *user
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		repo.users = append(repo.users, &u)
	}
	return repo
}

func (r *InMemoryUserRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return copyUsers(r.users), nil
}

func (r *InMemoryUserRepository) FindPage(ctx context.Context, skip, limit int64) ([]*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := int64(len(r.users))
	if skip >= total {
		return []*entities.User{}, nil
	}
	end := total
	if limit > 0 && limit < total-skip {
		end = skip + limit
	}
	return copyUsers(r.users[skip:end]), nil
}

func (r *InMemoryUserRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.users)), nil
}

func (r *InMemoryUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		u := *r.users[i]
		return &u, nil
	}
	return nil, ErrNotFound
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	u := *user
	r.users = append(r.users, &u)
	return nil
}

func (r *InMemoryUserRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, changes entities.UserChanges) (UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return UpdateResult{}, nil
	}
	res := UpdateResult{Matched: 1}
	if r.users[i].Apply(changes) {
		res.Modified = 1
	}
	return res, nil
}

func (r *InMemoryUserRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return 0, nil
	}
	r.users = append(r.users[:i], r.users[i+1:]...)
	return 1, nil
}

func (r *InMemoryUserRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *InMemoryUserRepository) indexOf(id primitive.ObjectID) int {
	for i, user := range r.users {
		if user.ID == id {
			return i
		}
	}
	return -1
}

func copyUsers(src []*entities.User) []*entities.User {
	users := make([]*entities.User, 0, len(src))
	for _, user := range src {
		u := *user
		users = append(users, &u)
	}
	return users
}
