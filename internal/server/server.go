// Package server assembles the Fiber application: global middleware, metrics,
// API docs, the command routes and the fallback handlers.
package server

import (
	"errors"
	"log"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/jam-build-shoplist/internal/config"
	"github.com/localnerve/jam-build-shoplist/internal/handlers"
	"github.com/localnerve/jam-build-shoplist/internal/identity"
	"github.com/localnerve/jam-build-shoplist/internal/middleware"
	"github.com/localnerve/jam-build-shoplist/internal/repository"
	"github.com/localnerve/jam-build-shoplist/internal/services"
	"github.com/localnerve/jam-build-shoplist/internal/types"
	"github.com/localnerve/jam-build-shoplist/internal/utils"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/localnerve/jam-build-shoplist/docs/api" // Swagger docs
)

// ServiceName labels the Prometheus metrics
const ServiceName = "shoplist"

// Options configures New
type Options struct {
	Config   *config.Config
	Store    repository.Store
	Resolver identity.Resolver
	// Registry receives the HTTP metrics; a private registry is used when nil
	Registry prometheus.Registerer
	// AccessLog enables the request logger
	AccessLog bool
	// ServiceOptions are passed to both command services
	ServiceOptions []services.Option
}

// NewResolver returns the identity resolver the configuration selects
func NewResolver(cfg *config.Config) identity.Resolver {
	if cfg.UsesAuthorizer() {
		log.Printf("Identities resolved from Authorizer sessions at %s", cfg.AuthzURL)
		return identity.NewAuthorizerResolver(cfg.AuthzURL, cfg.AuthzClientID)
	}
	log.Printf("Identities resolved from the %s header", cfg.IdentityHeader)
	return identity.NewHeaderResolver(cfg.IdentityHeader)
}

// New builds the application
func New(opts Options) *fiber.App {
	if opts.Resolver == nil {
		opts.Resolver = NewResolver(opts.Config)
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
		// Stored ids and names must not alias pooled request buffers
		Immutable: true,
	})

	// Global middleware
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(compress.New())

	// Prometheus metrics
	metrics := fiberprometheus.NewWithRegistry(opts.Registry, ServiceName, "", "", nil)
	metrics.RegisterAt(app, "/metrics")
	app.Use(metrics.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/", handlers.Status)

	health := &handlers.HealthHandler{Config: opts.Config, Store: opts.Store}
	app.Get("/api/health", health.Health)

	// Command routes under /api require an identity
	api := app.Group("/api", middleware.VersionMiddleware())
	handlers.RegisterRoutes(api, middleware.Authenticate(opts.Resolver),
		&handlers.ShoppingListHandler{Service: services.NewShoppingLists(opts.Store, opts.ServiceOptions...)},
		&handlers.ItemHandler{Service: services.NewItems(opts.Store, opts.ServiceOptions...)},
	)

	// 404 handler
	app.Use(utils.EndpointNotFoundResponse)

	return app
}

// ErrorHandler renders errors that escape a handler as an error map
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code == fiber.StatusNotFound {
			return utils.EndpointNotFoundResponse(c)
		}
		errorMap := types.ErrorMap{}
		errorMap.AddError("system", "httpError", fiberErr.Message, map[string]any{"status": fiberErr.Code})
		return c.Status(fiberErr.Code).JSON(fiber.Map{utils.ErrorMapKey: errorMap})
	}
	return utils.AppErrorResponse(c, "system", err, nil)
}
