package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/utils"
)

// AttachJWTLocals exposes the caller's id and role as "userId" and "role".
func AttachJWTLocals() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("user").(*utils.Claims)
		if !ok || claims == nil {
			return errNoSession
		}

		uid, err := uuid.Parse(claims.UserID)
		if err != nil {
			return errNoSession
		}
		role, ok := models.ParseRole(claims.Role)
		if !ok {
			return errNoSession
		}

		c.Locals("userId", uid)
		c.Locals("role", role)
		return c.Next()
	}
}

// UserID returns the authenticated caller, if any.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	uid, ok := c.Locals("userId").(uuid.UUID)
	return uid, ok
}

func UserRole(c *fiber.Ctx) models.Role {
	role, _ := c.Locals("role").(models.Role)
	return role
}
