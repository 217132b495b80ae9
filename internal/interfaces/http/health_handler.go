package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-notifier/internal/application/dto"
)

// HealthHandler responde el chequeo de vida del servicio.
type HealthHandler struct {
	service string
}

// NewHealthHandler construye el handler.
func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{service: service}
}

// Get godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Get(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "ok", Service: h.service})
}
