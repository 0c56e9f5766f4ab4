package repository_test

import (
	"context"
	"testing"

	"github.com/localnerve/jam-build-shoplist/internal/database"
	"github.com/localnerve/jam-build-shoplist/internal/models"
	"github.com/localnerve/jam-build-shoplist/internal/repository"
	"github.com/localnerve/jam-build-shoplist/internal/testutil"
	"gorm.io/gorm"
)

// These tests run the store contract against real servers. They need Docker
// and are skipped in -short mode or when the image variables are unset:
//
//	DB_TYPE=mariadb DB_IMAGE=mariadb:11 go test ./internal/repository/...
//	DB_TYPE=postgres DB_IMAGE=postgres:17 go test ./internal/repository/...
//	MONGO_IMAGE=mongo:8 go test ./internal/repository/...

func TestSQLStoreIntegration(t *testing.T) {
	cfg := testutil.StartSQLDatabase(t)

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to %s: %v", cfg.DBType, err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	runStoreContract(t, func(t *testing.T) repository.Store {
		// Each subtest starts from empty tables
		for _, model := range []any{&models.Item{}, &models.Membership{}, &models.ShoppingList{}} {
			if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				t.Fatalf("Failed to clear %T: %v", model, err)
			}
		}
		return repository.NewGorm(db)
	})
}

func TestMongoStoreIntegration(t *testing.T) {
	cfg := testutil.StartMongo(t)
	ctx := context.Background()

	client, err := database.ConnectMongo(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to connect to mongodb: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	runStoreContract(t, func(t *testing.T) repository.Store {
		if err := client.Database(cfg.MongoDatabase).Drop(ctx); err != nil {
			t.Fatalf("Failed to drop database: %v", err)
		}
		store := repository.NewMongo(client, cfg.MongoDatabase)
		if err := store.EnsureIndexes(ctx); err != nil {
			t.Fatalf("Failed to create indexes: %v", err)
		}
		return store
	})
}
