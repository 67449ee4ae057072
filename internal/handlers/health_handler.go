package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
	CountUsers(ctx context.Context) (int64, error)
}

type HealthHandler struct {
	Store HealthChecker
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := h.Store.Ping(ctx); err != nil {
		return err
	}
	n, err := h.Store.CountUsers(ctx)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "database reachable", fiber.Map{"users": n})
}
