package controller

import (
	"qwery-ai/internal/dto"
	"qwery-ai/internal/pkg/logger"
	"qwery-ai/internal/pkg/serverutils"
	"qwery-ai/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	Ready(ctx *fiber.Ctx) error
}

type healthController struct {
	service service.IHealthService
	logger  logger.ILogger
}

func NewHealthController(service service.IHealthService, logger logger.ILogger) IHealthController {
	return &healthController{service: service, logger: logger}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
	r.Get("/ready", c.Ready)
}

// Health is liveness only and never touches the database.
func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.HealthResponse{Status: "healthy", Service: service.ServiceName})
}

func (c *healthController) Ready(ctx *fiber.Ctx) error {
	if err := c.service.Ready(ctx.UserContext()); err != nil {
		c.logger.Error("READINESS", "Readiness check failed", map[string]interface{}{"error": err.Error()})
		return ctx.Status(fiber.StatusServiceUnavailable).
			JSON(serverutils.ErrorResponse(fiber.StatusServiceUnavailable, err.Error()))
	}
	return ctx.JSON(dto.ReadyResponse{Status: "ready"})
}
