package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kelurahan/complaints-api/internal/config"
)

// Mongo manages the complaint store connection.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongo connects to the complaint database and verifies the connection
// with a ping.
func NewMongo(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	uri := fmt.Sprintf("mongodb://%s:%s/%s?directConnection=true", cfg.MongoHost, cfg.MongoPort, cfg.MongoDatabase)
	if cfg.MongoUser != "" {
		uri = fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin&directConnection=true",
			cfg.MongoUser, url.QueryEscape(cfg.MongoPassword), cfg.MongoHost, cfg.MongoPort, cfg.MongoDatabase)
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetSocketTimeout(45 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Mongo{client: client, db: client.Database(cfg.MongoDatabase)}, nil
}

// Database returns the complaint database handle.
func (m *Mongo) Database() *mongo.Database {
	return m.db
}

// Close disconnects the client, releasing pooled connections.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
