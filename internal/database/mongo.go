package database

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectMongo creates a MongoDB client and waits for the primary to answer
// a ping, retrying up to retries times
func ConnectMongo(ctx context.Context, uri string, retries uint64, log *zap.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	err = retry.Do(ctx, backoff(retries), func(ctx context.Context) error {
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			log.Warn("MongoDB not reachable yet", zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	log.Info("Connected to MongoDB")
	return client, nil
}
