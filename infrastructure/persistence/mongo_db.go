package persistence

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"streamhub/domain/query"
	"streamhub/infrastructure/configuration"
	"streamhub/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// NewMongoDb connects and pings. The caller decides whether a failure is fatal.
func NewMongoDb(ctx context.Context, cfg configuration.Db) (*mongo.Client, error) {
	uri := mongoURI(cfg)
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetConnectTimeout(5 * time.Second))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	logger.GetLogger().WithField("host", cfg.Host).WithField("database", cfg.Name).Info("MongoDB connected successfully")
	return client, nil
}

func mongoURI(cfg configuration.Db) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == "" {
		port = "27017"
	}
	if cfg.User == "" {
		return fmt.Sprintf("mongodb://%s:%s", host, port)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s", url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password), host, port)
}

// EnsureMongoIndexes creates the unique indexes the repositories rely on for conflict detection.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		query.Users: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		query.Subscriptions: {
			{Keys: bson.D{{Key: "subscriber", Value: 1}, {Key: "channel", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "channel", Value: 1}}},
		},
		query.Tweets: {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		query.Videos: {
			{Keys: bson.D{{Key: "owner", Value: 1}}},
		},
	}
	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating indexes on %s failed: %w", collection, err)
		}
	}
	return nil
}
