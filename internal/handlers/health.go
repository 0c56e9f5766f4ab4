package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoplist/internal/config"
	"github.com/localnerve/jam-build-shoplist/internal/repository"
	"github.com/localnerve/jam-build-shoplist/internal/services"
)

// HealthHandler reports service health
type HealthHandler struct {
	Config *config.Config
	Store  repository.Store
}

// Health handles GET /api/health
// @Summary Service health
// @Description Probes the store and, when configured, the Authorizer service
// @Tags System
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	result := services.HealthCheck(c.UserContext(), h.Config, h.Store)
	if !result.Healthy() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(result)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// Status handles GET / outside the documented API base path
func Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "message": "Shopping List API is running."})
}
