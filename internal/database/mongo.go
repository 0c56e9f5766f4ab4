package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/localnerve/jam-build-shoplist/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConnectTimeout bounds the initial connection and ping
const MongoConnectTimeout = 10 * time.Second

// ConnectMongo connects to MONGODB_URI and verifies the primary answers
func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, MongoConnectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.MongoURI).
		SetAppName("jam-build-shoplist")
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Printf("Connected to mongodb database: %s", cfg.MongoDatabase)
	return client, nil
}
