package health

import (
	"context"
	"fmt"
	"time"

	config "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectMongoWithTimeout creates a MongoDB connection for the reading
// archive. Returns an error when no MONGODB_URI is configured.
func ConnectMongoWithTimeout(cfg *config.Config, timeout time.Duration) (*mongo.Client, error) {
	if cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("MONGODB_URI environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.Mongo.URI)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("unable to ping MongoDB: %w", err)
	}

	return client, nil
}

// ArchiveCollection returns the configured archive collection handle.
func ArchiveCollection(client *mongo.Client, cfg *config.Config) *mongo.Collection {
	return client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
}
