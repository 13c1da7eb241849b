package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"user-management-be/internal/entities"
)

// byInsertion sorts on _id; ObjectIDs grow with creation time.
var byInsertion = bson.D{{Key: entities.FieldID, Value: 1}}

type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a user repository backed by a MongoDB collection
func NewMongoUserRepository(collection *mongo.Collection) UserRepository {
	return &mongoUserRepository{collection: collection}
}

// FindAll returns every user document
func (r *mongoUserRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	cursor, err := r.collection.Find(ctx, bson.D{}, options.Find().SetSort(byInsertion))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*entities.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// FindPage returns up to limit users after skipping the first skip
func (r *mongoUserRepository) FindPage(ctx context.Context, skip, limit int64) ([]*entities.User, error) {
	opts := options.Find().SetSort(byInsertion).SetSkip(skip).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users page: %w", err)
	}

	users := make([]*entities.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users page: %w", err)
	}
	return users, nil
}

// Count returns the number of documents in the collection
func (r *mongoUserRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// FindByID finds a user by its ObjectID
func (r *mongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entities.User, error) {
	var user entities.User
	err := r.collection.FindOne(ctx, bson.M{entities.FieldID: id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// Create inserts a new user document
func (r *mongoUserRepository) Create(ctx context.Context, user *entities.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateByID applies changes with $set
func (r *mongoUserRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, changes entities.UserChanges) (UpdateResult, error) {
	update := bson.M{"$set": bson.M(changes)}
	res, err := r.collection.UpdateOne(ctx, bson.M{entities.FieldID: id}, update)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to update user: %w", err)
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

// DeleteByID removes a user document and returns the number deleted
func (r *mongoUserRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{entities.FieldID: id})
	if err != nil {
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}
	return res.DeletedCount, nil
}

// Ping checks that the primary is reachable
func (r *mongoUserRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}
