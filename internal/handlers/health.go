package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/eda/internal/models"
	"github.com/soltixdb/eda/internal/queue"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Health handles health check requests
func (h *Handler) Health(c *fiber.Ctx) error {
	resp := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   Version,
		Queue:     "disabled",
		Store:     "disabled",
	}

	if h.queuePublisher != nil {
		resp.Queue = string(queue.Kind(h.cfg.Queue))
	}
	if h.results != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.results.Ping(ctx); err != nil {
			h.logger.Warn("Result store unreachable", "error", err)
			resp.Status = "degraded"
			resp.Store = "unreachable"
		} else {
			resp.Store = "ok"
		}
	}

	return c.JSON(resp)
}

// NotFound handles 404 errors
func (h *Handler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "NOT_FOUND",
			Message: "Route not found",
			Path:    c.Path(),
		},
	})
}
