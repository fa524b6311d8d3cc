package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Pinger is an interface for health check ping operations.
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new HealthHandler with the given storage client.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check performs a health check by pinging the persistent store.
// Returns 200 OK with {"status": "healthy"} when storage is reachable.
// Returns 503 Service Unavailable when it is not.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.store.Ping(c.Context()).Err(); err != nil {
		log.Error().Err(err).Msg("health check failed: storage unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  "storage connection failed",
		})
	}
	return c.JSON(fiber.Map{
		"status": "healthy",
	})
}
