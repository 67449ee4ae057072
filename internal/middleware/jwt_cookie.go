package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/utils"
)

var errNoSession = apperr.New(apperr.CodeUnauthenticated, "authentication required")

// JWTFromCookie verifies the session cookie and stores its claims under
// the "user" local.
func JWTFromCookie(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.ParseJWT(secret, c.Cookies(utils.TokenCookie))
		if err != nil {
			return errNoSession
		}
		c.Locals("user", claims)
		return c.Next()
	}
}
