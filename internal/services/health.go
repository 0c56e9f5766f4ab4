package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/localnerve/jam-build-shoplist/internal/config"
	"github.com/localnerve/jam-build-shoplist/internal/repository"
	"github.com/localnerve/jam-build-shoplist/internal/utils"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Store        string            `json:"store"`
	Authorizer   string            `json:"authorizer"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// Healthy reports whether every probed dependency answered
func (r HealthCheckResult) Healthy() bool {
	return r.Status == "healthy"
}

// HealthCheck probes the store and, when configured, the Authorizer service
func HealthCheck(ctx context.Context, cfg *config.Config, store repository.Store) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}
	var failures []string

	result.Details["store_type"] = cfg.StoreType
	if err := store.Ping(ctx); err != nil {
		result.Status = "unhealthy"
		result.Store = "unreachable"
		result.Details["store_error"] = err.Error()
		failures = append(failures, fmt.Sprintf("Store ping failed: %v", err))
		log.Printf("Health check failed - store ping: %v", err)
	} else {
		result.Store = "ok"
		switch cfg.StoreType {
		case config.StoreSQL:
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBDatabase
		case config.StoreMongo:
			result.Details["database_name"] = cfg.MongoDatabase
		}
	}

	if !cfg.UsesAuthorizer() {
		result.Authorizer = "disabled"
	} else if err := utils.PingAuthorizer(ctx, cfg.AuthzURL); err != nil {
		result.Status = "unhealthy"
		result.Authorizer = "unreachable"
		result.Details["authorizer_error"] = err.Error()
		failures = append(failures, fmt.Sprintf("Authorizer ping failed: %v", err))
		log.Printf("Health check failed - authorizer ping: %v", err)
	} else {
		result.Authorizer = "ok"
		result.Details["authorizer_url"] = cfg.AuthzURL
	}

	if len(failures) > 0 {
		result.ErrorMessage = strings.Join(failures, "; ")
	} else {
		log.Println("Health check passed - all systems operational")
	}

	return result
}
