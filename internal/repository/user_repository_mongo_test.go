package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"user-management-be/internal/entities"
	repo "user-management-be/internal/repository"
)

const usersNS = "user_management.users"

func userDocument(id primitive.ObjectID, username string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "username", Value: username},
		{Key: "email", Value: username + "@example.com"},
		{Key: "gender", Value: "female"},
	}
}

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find by id", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, userDocument(id, "jdoe")))

		user, err := repo.NewMongoUserRepository(mt.Coll).FindByID(ctx, id)
		require.NoError(mt, err)
		assert.Equal(mt, id, user.ID)
		assert.Equal(mt, "jdoe", user.Username)
		assert.Equal(mt, entities.GenderFemale, user.Gender)
	})

	mt.Run("find by id not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch))

		_, err := repo.NewMongoUserRepository(mt.Coll).FindByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(mt, err, repo.ErrNotFound)
	})

	mt.Run("find all", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch,
			userDocument(primitive.NewObjectID(), "a"),
			userDocument(primitive.NewObjectID(), "b"),
		))

		users, err := repo.NewMongoUserRepository(mt.Coll).FindAll(ctx)
		require.NoError(mt, err)
		require.Len(mt, users, 2)
		assert.Equal(mt, "a", users[0].Username)
		assert.Equal(mt, "b", users[1].Username)
	})

	mt.Run("find all empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch))

		users, err := repo.NewMongoUserRepository(mt.Coll).FindAll(ctx)
		require.NoError(mt, err)
		assert.NotNil(mt, users)
		assert.Empty(mt, users)
	})

	mt.Run("find page and count", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, userDocument(primitive.NewObjectID(), "user11")),
			mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, bson.D{{Key: "n", Value: int64(25)}}),
		)
		r := repo.NewMongoUserRepository(mt.Coll)

		users, err := r.FindPage(ctx, 10, 10)
		require.NoError(mt, err)
		require.Len(mt, users, 1)
		assert.Equal(mt, "user11", users[0].Username)

		total, err := r.Count(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, int64(25), total)
	})

	mt.Run("create assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &entities.User{Username: "jdoe"}
		require.NoError(mt, repo.NewMongoUserRepository(mt.Coll).Create(ctx, user))
		assert.False(mt, user.ID.IsZero())
	})

	mt.Run("create failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad value",
		}))

		err := repo.NewMongoUserRepository(mt.Coll).Create(ctx, &entities.User{})
		assert.ErrorContains(mt, err, "failed to create user")
	})

	mt.Run("update counts", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)
		r := repo.NewMongoUserRepository(mt.Coll)
		id := primitive.NewObjectID()
		changes := entities.UserChanges{entities.FieldFirstName: "Jane"}

		res, err := r.UpdateByID(ctx, id, changes)
		require.NoError(mt, err)
		assert.Equal(mt, repo.UpdateResult{Matched: 1, Modified: 1}, res)

		res, err = r.UpdateByID(ctx, id, changes)
		require.NoError(mt, err)
		assert.Equal(mt, repo.UpdateResult{Matched: 1}, res)

		res, err = r.UpdateByID(ctx, id, changes)
		require.NoError(mt, err)
		assert.Equal(mt, repo.UpdateResult{}, res)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)
		r := repo.NewMongoUserRepository(mt.Coll)
		id := primitive.NewObjectID()

		n, err := r.DeleteByID(ctx, id)
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), n)

		n, err = r.DeleteByID(ctx, id)
		require.NoError(mt, err)
		assert.Equal(mt, int64(0), n)
	})
}
