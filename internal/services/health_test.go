package services_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/localnerve/jam-build-shoplist/internal/config"
	"github.com/localnerve/jam-build-shoplist/internal/repository"
	"github.com/localnerve/jam-build-shoplist/internal/services"
)

type unreachableStore struct {
	*repository.Memory
}

func (unreachableStore) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestHealthCheckMemory(t *testing.T) {
	cfg := &config.Config{StoreType: config.StoreMemory}
	result := services.HealthCheck(context.Background(), cfg, repository.NewMemory())

	if !result.Healthy() {
		t.Fatalf("Expected healthy, got %+v", result)
	}
	if result.Store != "ok" || result.Authorizer != "disabled" {
		t.Errorf("Expected store ok and authorizer disabled, got %+v", result)
	}
}

func TestHealthCheckStoreDown(t *testing.T) {
	cfg := &config.Config{StoreType: config.StoreSQL, DBType: "sqlite"}
	result := services.HealthCheck(context.Background(), cfg, unreachableStore{repository.NewMemory()})

	if result.Healthy() {
		t.Fatal("Expected unhealthy when the store does not answer")
	}
	if result.Store != "unreachable" || result.ErrorMessage == "" {
		t.Errorf("Expected store unreachable with an error message, got %+v", result)
	}
}

func TestHealthCheckAuthorizer(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	defer listener.Close()

	cfg := &config.Config{StoreType: config.StoreMemory, AuthzURL: "http://" + listener.Addr().String()}
	result := services.HealthCheck(context.Background(), cfg, repository.NewMemory())
	if !result.Healthy() || result.Authorizer != "ok" {
		t.Errorf("Expected a listening Authorizer to be ok, got %+v", result)
	}

	closed := listener.Addr().String()
	listener.Close()
	cfg.AuthzURL = "http://" + closed
	result = services.HealthCheck(context.Background(), cfg, repository.NewMemory())
	if result.Healthy() || result.Authorizer != "unreachable" {
		t.Errorf("Expected a closed Authorizer port to be unreachable, got %+v", result)
	}
}
