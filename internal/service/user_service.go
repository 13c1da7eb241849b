package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"user-management-be/internal/cache"
	"user-management-be/internal/entities"
	"user-management-be/internal/identifier"
	"user-management-be/internal/metrics"
	"user-management-be/internal/models"
	"user-management-be/internal/repository"
	"user-management-be/internal/validation"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrNoChanges      = errors.New("no changes made")
	ErrNoUsersUpdated = errors.New("no users found or no changes made")
)

// UserService defines the interface for user business logic
type UserService interface {
	ListUsers(ctx context.Context) ([]*entities.User, error)
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (string, error)
	GetUser(ctx context.Context, id string) (*entities.User, error)
	UpdateUser(ctx context.Context, id string, req *models.UpdateUserRequest) error
	// BulkUpdateUsers applies each item in order and returns the number of
	// records modified. Items without an _id or without changes are skipped;
	// a malformed _id stops the run, keeping earlier writes.
	BulkUpdateUsers(ctx context.Context, items []models.BulkUpdateItem) (int64, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsersPage(ctx context.Context, page, pageSize int64) (*models.PaginatedUsersResponse, error)
	Ping(ctx context.Context) error
}

type userService struct {
	repo     repository.UserRepository
	cache    cache.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

// NewUserService creates a new user service. cacheClient may be nil.
func NewUserService(repo repository.UserRepository, cacheClient cache.Cache, cacheTTL time.Duration, log *zap.Logger) UserService {
	svc := &userService{
		repo:     repo,
		cacheTTL: cacheTTL,
		log:      log,
	}
	// Only set cache if provided (allows graceful degradation)
	if cacheClient != nil {
		svc.cache = cacheClient
	}
	return svc
}

func cacheKey(id primitive.ObjectID) string {
	return fmt.Sprintf("user:%s", identifier.Encode(id))
}

func (s *userService) ListUsers(ctx context.Context) (users []*entities.User, err error) {
	defer func() { metrics.RecordOperation("list", err) }()
	defer metrics.TrackStoreOperation("find_all")()

	return s.repo.FindAll(ctx)
}

func (s *userService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (id string, err error) {
	defer func() { metrics.RecordOperation("create", err) }()

	user := req.ToEntity()
	done := metrics.TrackStoreOperation("create")
	err = s.repo.Create(ctx, user)
	done()
	if err != nil {
		return "", err
	}

	s.log.Info("User created", zap.String("user_id", user.ID.Hex()))
	return identifier.Encode(user.ID), nil
}

func (s *userService) GetUser(ctx context.Context, id string) (user *entities.User, err error) {
	defer func() { metrics.RecordOperation("get", err) }()

	oid, err := identifier.Decode(id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached entities.User
		err := s.cache.GetJSON(ctx, cacheKey(oid), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("Cache read failed", zap.String("user_id", id), zap.Error(err))
		}
	}

	done := metrics.TrackStoreOperation("find_by_id")
	user, err = s.repo.FindByID(ctx, oid)
	done()
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey(oid), user, s.cacheTTL); err != nil {
			s.log.Warn("Cache write failed", zap.String("user_id", id), zap.Error(err))
		}
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req *models.UpdateUserRequest) (err error) {
	defer func() { metrics.RecordOperation("update", err) }()

	oid, err := identifier.Decode(id)
	if err != nil {
		return err
	}

	changes := req.Changes()
	if len(changes) == 0 {
		return s.checkUnchanged(ctx, oid)
	}

	res, err := s.updateOne(ctx, oid, changes)
	if err != nil {
		return err
	}
	switch {
	case res.Matched == 0:
		return ErrUserNotFound
	case res.Modified == 0:
		return ErrNoChanges
	}
	return nil
}

// checkUnchanged resolves an update with nothing to write: the record either
// exists (no change) or does not.
func (s *userService) checkUnchanged(ctx context.Context, id primitive.ObjectID) error {
	done := metrics.TrackStoreOperation("find_by_id")
	_, err := s.repo.FindByID(ctx, id)
	done()
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	return ErrNoChanges
}

func (s *userService) BulkUpdateUsers(ctx context.Context, items []models.BulkUpdateItem) (updated int64, err error) {
	defer func() { metrics.RecordOperation("bulk_update", err) }()

	for i := range items {
		item := &items[i]
		if item.ID == nil {
			continue
		}
		oid, err := identifier.Decode(*item.ID)
		if err != nil {
			return updated, fmt.Errorf("item %d: %w", i, err)
		}

		changes := item.Changes()
		if len(changes) == 0 {
			continue
		}

		res, err := s.updateOne(ctx, oid, changes)
		if err != nil {
			return updated, err
		}
		updated += res.Modified
	}

	if updated == 0 {
		return 0, ErrNoUsersUpdated
	}
	s.log.Info("Bulk update finished", zap.Int("items", len(items)), zap.Int64("updated", updated))
	return updated, nil
}

// updateOne writes changes and drops the cached copy when anything changed.
func (s *userService) updateOne(ctx context.Context, id primitive.ObjectID, changes entities.UserChanges) (repository.UpdateResult, error) {
	done := metrics.TrackStoreOperation("update_by_id")
	res, err := s.repo.UpdateByID(ctx, id, changes)
	done()
	if err != nil {
		return res, err
	}
	if res.Modified > 0 {
		s.invalidate(ctx, id)
	}
	return res, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) (err error) {
	defer func() { metrics.RecordOperation("delete", err) }()

	oid, err := identifier.Decode(id)
	if err != nil {
		return err
	}

	done := metrics.TrackStoreOperation("delete_by_id")
	deleted, err := s.repo.DeleteByID(ctx, oid)
	done()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrUserNotFound
	}

	s.invalidate(ctx, oid)
	s.log.Info("User deleted", zap.String("user_id", id))
	return nil
}

func (s *userService) ListUsersPage(ctx context.Context, page, pageSize int64) (resp *models.PaginatedUsersResponse, err error) {
	defer func() { metrics.RecordOperation("list_page", err) }()

	if page < 1 {
		return nil, &validation.Error{Field: "page", Message: "page must be at least 1"}
	}
	if pageSize < 1 {
		return nil, &validation.Error{Field: "page_size", Message: "page_size must be at least 1"}
	}

	skip := int64(math.MaxInt64)
	if page-1 <= math.MaxInt64/pageSize {
		skip = (page - 1) * pageSize
	}

	resp = &models.PaginatedUsersResponse{Page: page, PageSize: pageSize}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer metrics.TrackStoreOperation("find_page")()
		users, err := s.repo.FindPage(gctx, skip, pageSize)
		if err != nil {
			return err
		}
		resp.Users = users
		return nil
	})
	g.Go(func() error {
		defer metrics.TrackStoreOperation("count")()
		total, err := s.repo.Count(gctx)
		if err != nil {
			return err
		}
		resp.TotalUsers = total
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *userService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *userService) invalidate(ctx context.Context, id primitive.ObjectID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.log.Warn("Cache invalidation failed", zap.String("user_id", id.Hex()), zap.Error(err))
	}
}
