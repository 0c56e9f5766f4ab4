package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store types selectable with STORE_TYPE
const (
	StoreMemory = "memory"
	StoreSQL    = "sql"
	StoreMongo  = "mongo"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string `env:"PORT" envDefault:"3000"`

	// Persistence backend: memory, sql or mongo
	StoreType string `env:"STORE_TYPE" envDefault:"memory"`

	// SQL database configuration
	DBType            string `env:"DB_TYPE" envDefault:"sqlite"` // mysql, mariadb, postgres, sqlite, sqlserver
	DBHost            string `env:"DB_HOST" envDefault:"localhost"`
	DBPort            string `env:"DB_PORT" envDefault:"3306"`
	DBDatabase        string `env:"DB_DATABASE" envDefault:"shoplist.db"`
	DBUser            string `env:"DB_USER"`
	DBPassword        string `env:"DB_PASSWORD"`
	DBConnectionLimit int    `env:"DB_CONNECTION_LIMIT" envDefault:"5"`
	DBLogLevel        string `env:"DB_LOG_LEVEL" envDefault:"warn"` // silent, error, warn, info
	DBAutoMigrate     bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`

	// Document database configuration
	MongoURI      string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"shoplist"`

	// Identity configuration. When AuthzURL is set, identities come from
	// Authorizer sessions; otherwise from IdentityHeader.
	IdentityHeader string `env:"IDENTITY_HEADER" envDefault:"X-User-Id"`
	AuthzURL       string `env:"AUTHZ_URL"`
	AuthzClientID  string `env:"AUTHZ_CLIENT_ID"`
}

// Load loads configuration from environment variables, after applying an
// optional .env file named by ENV_FILE (or ./.env when present)
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the cross-field requirements
func (c *Config) Validate() error {
	switch c.StoreType {
	case StoreMemory:
	case StoreSQL:
		if c.DBDatabase == "" {
			return errors.New("DB_DATABASE is required when STORE_TYPE=sql")
		}
		if c.DBType != "sqlite" && c.DBUser == "" {
			return fmt.Errorf("DB_USER is required for DB_TYPE=%s", c.DBType)
		}
		if c.DBConnectionLimit < 1 {
			return errors.New("DB_CONNECTION_LIMIT must be at least 1")
		}
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required when STORE_TYPE=mongo")
		}
		if c.MongoDatabase == "" {
			return errors.New("MONGODB_DATABASE is required when STORE_TYPE=mongo")
		}
	default:
		return fmt.Errorf("unsupported STORE_TYPE: %s", c.StoreType)
	}

	if c.AuthzURL != "" && c.AuthzClientID == "" {
		return errors.New("AUTHZ_CLIENT_ID is required when AUTHZ_URL is set")
	}
	if c.AuthzURL == "" && strings.TrimSpace(c.IdentityHeader) == "" {
		return errors.New("IDENTITY_HEADER must not be empty")
	}
	return nil
}

// UsesAuthorizer reports whether identities come from Authorizer sessions
func (c *Config) UsesAuthorizer() bool {
	return c.AuthzURL != ""
}

func loadDotEnv() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Printf("Loaded environment from %s", path)
	return nil
}
