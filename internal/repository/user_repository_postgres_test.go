package repository_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"user-management-be/internal/entities"
	repo "user-management-be/internal/repository"
)

const (
	updateUserSQL = `
		UPDATE users
		SET doc = doc || $1::jsonb
		WHERE id = $2 AND NOT (doc @> $1::jsonb)
	`
)

func newPostgresRepo(t *testing.T) (repo.UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repo.NewPostgresUserRepository(db), mock
}

func userDoc(t *testing.T, u entities.User) []byte {
	t.Helper()
	b, err := json.Marshal(u)
	require.NoError(t, err)
	return b
}

func TestPostgresUserRepository_Create(t *testing.T) {
	r, mock := newPostgresRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (id, doc) VALUES ($1, $2)`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &entities.User{Username: "jdoe", Gender: entities.GenderMale}
	require.NoError(t, r.Create(context.Background(), user))
	assert.False(t, user.ID.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindByID(t *testing.T) {
	r, mock := newPostgresRepo(t)
	want := entities.User{ID: primitive.NewObjectID(), Username: "jdoe", Password: "Abcdef1!", Gender: entities.GenderFemale}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT doc FROM users WHERE id = $1`)).
		WithArgs(want.ID.Hex()).
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(userDoc(t, want)))

	got, err := r.FindByID(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindByID_NotFound(t *testing.T) {
	r, mock := newPostgresRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT doc FROM users WHERE id = $1`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := r.FindByID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, repo.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindPage(t *testing.T) {
	r, mock := newPostgresRepo(t)
	a := entities.User{ID: primitive.NewObjectID(), Username: "a"}
	b := entities.User{ID: primitive.NewObjectID(), Username: "b"}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT doc FROM users ORDER BY seq OFFSET $1 LIMIT $2`)).
		WithArgs(int64(10), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(userDoc(t, a)).AddRow(userDoc(t, b)))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM users`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	users, err := r.FindPage(context.Background(), 10, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a", users[0].Username)
	assert.Equal(t, b.ID, users[1].ID)

	n, err := r.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindAll_Error(t *testing.T) {
	r, mock := newPostgresRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT doc FROM users ORDER BY seq`)).
		WillReturnError(errors.New("connection reset"))

	_, err := r.FindAll(context.Background())
	assert.ErrorContains(t, err, "failed to list users")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_UpdateByID(t *testing.T) {
	id := primitive.NewObjectID()
	changes := entities.UserChanges{"first_name": "A"}

	t.Run("modified", func(t *testing.T) {
		r, mock := newPostgresRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(updateUserSQL)).
			WithArgs(`{"first_name":"A"}`, id.Hex()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		res, err := r.UpdateByID(context.Background(), id, changes)
		require.NoError(t, err)
		assert.Equal(t, repo.UpdateResult{Matched: 1, Modified: 1}, res)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already up to date", func(t *testing.T) {
		r, mock := newPostgresRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(updateUserSQL)).
			WithArgs(`{"first_name":"A"}`, id.Hex()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`)).
			WithArgs(id.Hex()).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		res, err := r.UpdateByID(context.Background(), id, changes)
		require.NoError(t, err)
		assert.Equal(t, repo.UpdateResult{Matched: 1, Modified: 0}, res)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent", func(t *testing.T) {
		r, mock := newPostgresRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(updateUserSQL)).
			WithArgs(`{"first_name":"A"}`, id.Hex()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`)).
			WithArgs(id.Hex()).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		res, err := r.UpdateByID(context.Background(), id, changes)
		require.NoError(t, err)
		assert.Equal(t, repo.UpdateResult{}, res)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUserRepository_DeleteByID(t *testing.T) {
	r, mock := newPostgresRepo(t)
	id := primitive.NewObjectID()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(id.Hex()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(id.Hex()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := r.DeleteByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = r.DeleteByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
