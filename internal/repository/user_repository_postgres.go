package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"user-management-be/internal/entities"
)

// Users are stored as JSONB documents keyed by the hex ObjectID; seq keeps
// insertion order for listing.
const (
	listUsersQuery     = `SELECT doc FROM users ORDER BY seq`
	listUsersPageQuery = `SELECT doc FROM users ORDER BY seq OFFSET $1 LIMIT $2`
	countUsersQuery    = `SELECT COUNT(*) FROM users`
	getUserByIDQuery   = `SELECT doc FROM users WHERE id = $1`
	insertUserQuery    = `INSERT INTO users (id, doc) VALUES ($1, $2)`
	// Only rows whose document does not already contain every change are
	// touched, so RowsAffected counts real modifications.
	updateUserQuery = `
		UPDATE users
		SET doc = doc || $1::jsonb
		WHERE id = $2 AND NOT (doc @> $1::jsonb)
	`
	userExistsQuery = `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`
	deleteUserQuery = `DELETE FROM users WHERE id = $1`
)

type postgresUserRepository struct {
	db *sql.DB
}

// NewPostgresUserRepository creates a user repository backed by a PostgreSQL JSONB table
func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	rows, err := r.db.QueryContext(ctx, listUsersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return scanUsers(rows)
}

func (r *postgresUserRepository) FindPage(ctx context.Context, skip, limit int64) ([]*entities.User, error) {
	rows, err := r.db.QueryContext(ctx, listUsersPageQuery, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users page: %w", err)
	}
	return scanUsers(rows)
}

func (r *postgresUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, countUsersQuery).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *postgresUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entities.User, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, getUserByIDQuery, id.Hex()).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return decodeUser(doc)
}

func (r *postgresUserRepository) Create(ctx context.Context, user *entities.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	doc, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, insertUserQuery, user.ID.Hex(), string(doc)); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, changes entities.UserChanges) (UpdateResult, error) {
	patch, err := json.Marshal(changes)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to encode changes: %w", err)
	}

	result, err := r.db.ExecContext(ctx, updateUserQuery, string(patch), id.Hex())
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to update user: %w", err)
	}
	modified, err := result.RowsAffected()
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to update user: %w", err)
	}
	if modified > 0 {
		return UpdateResult{Matched: modified, Modified: modified}, nil
	}

	// Nothing changed: tell "absent" apart from "already up to date".
	var exists bool
	if err := r.db.QueryRowContext(ctx, userExistsQuery, id.Hex()).Scan(&exists); err != nil {
		return UpdateResult{}, fmt.Errorf("failed to check user: %w", err)
	}
	if exists {
		return UpdateResult{Matched: 1}, nil
	}
	return UpdateResult{}, nil
}

func (r *postgresUserRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := r.db.ExecContext(ctx, deleteUserQuery, id.Hex())
	if err != nil {
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}
	return deleted, nil
}

func (r *postgresUserRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanUsers(rows *sql.Rows) ([]*entities.User, error) {
	defer rows.Close()

	users := make([]*entities.User, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user, err := decodeUser(doc)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	return users, nil
}

func decodeUser(doc []byte) (*entities.User, error) {
	var user entities.User
	if err := json.Unmarshal(doc, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}
