package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
)

// RequireRoles must run after AttachJWTLocals.
func RequireRoles(allowed ...models.Role) fiber.Handler {
	allowedSet := map[models.Role]bool{}
	for _, r := range allowed {
		allowedSet[r] = true
	}

	return func(c *fiber.Ctx) error {
		if _, ok := UserID(c); !ok {
			return errNoSession
		}
		if !allowedSet[UserRole(c)] {
			return apperr.New(apperr.CodeForbidden, "forbidden: insufficient role")
		}
		return c.Next()
	}
}
