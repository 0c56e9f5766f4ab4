package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/localnerve/jam-build-shoplist/internal/config"
	"github.com/localnerve/jam-build-shoplist/internal/database"
	"github.com/localnerve/jam-build-shoplist/internal/server"
	"github.com/prometheus/client_golang/prometheus"
)

// @title Shopping List API
// @version 1.0.0
// @description Multi-tenant shopping list data service with membership based authorization
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/jam-build-shoplist
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

// @securityDefinitions.apikey UserIdHeader
// @in header
// @name X-User-Id

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open the configured store
	store, err := database.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreType, err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			log.Printf("Failed to close store: %v", err)
		}
	}()

	app := server.New(server.Options{
		Config:    cfg,
		Store:     store,
		Registry:  prometheus.DefaultRegisterer,
		AccessLog: true,
	})

	if cfg.UsesAuthorizer() {
		log.Printf("Authorizer will be initialized on first authenticated request")
	}

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	// Start server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("Server stopped with error: %v", err)
		return
	}

	log.Println("Server stopped")
}
