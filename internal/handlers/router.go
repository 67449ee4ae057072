package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
)

type Handlers struct {
	Auth       *AuthHandler
	Google     *GoogleOAuthHandler
	Users      *UserHandler
	Categories *CategoryHandler
	Gigs       *GigHandler
	Orders     *OrderHandler
	Messages   *MessageHandler
	Reviews    *ReviewHandler
	WS         *WSHandler
	Health     *HealthHandler
}

// SetupRoutes mounts the JSON API under /api and the order websocket under
// /ws. Google routes are mounted only when h.Google is set.
func SetupRoutes(app *fiber.App, h Handlers, jwtSecret string) {
	api := app.Group("/api")

	// public
	api.Post("/auth/register", h.Auth.Register)
	api.Post("/auth/login", h.Auth.Login)
	api.Post("/auth/logout", h.Auth.Logout)
	if h.Google != nil {
		api.Get("/auth/google/start", h.Google.GoogleStart)
		api.Get("/auth/google/callback", h.Google.GoogleCallback)
	}
	api.Get("/healthz", h.Health.Check)
	api.Get("/users/:id", h.Users.Get)
	api.Get("/categories", h.Categories.GetCategories)
	api.Get("/gigs", h.Gigs.List)
	api.Get("/gigs/:id", h.Gigs.Get)
	api.Get("/orders", h.Orders.List)
	api.Get("/orders/:id", h.Orders.Get)
	api.Get("/messages", h.Messages.List)
	api.Get("/reviews", h.Reviews.List)

	// protected (JWT)
	auth := []fiber.Handler{
		middleware.JWTFromCookie(jwtSecret),
		middleware.AttachJWTLocals(),
	}
	withAuth := func(hs ...fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, auth...), hs...)
	}
	freelancerOnly := middleware.RequireRoles(models.RoleFreelancer)

	api.Get("/me", withAuth(h.Auth.Me)...)
	api.Post("/categories", withAuth(freelancerOnly, h.Categories.Create)...)
	api.Post("/gigs", withAuth(freelancerOnly, h.Gigs.Create)...)
	api.Post("/orders", withAuth(h.Orders.Create)...)
	api.Put("/orders/:id/status", withAuth(h.Orders.UpdateStatus)...)
	api.Post("/messages", withAuth(h.Messages.Post)...)
	api.Post("/reviews", withAuth(h.Reviews.Submit)...)

	app.Get("/ws/orders/:id", h.WS.Upgrade, websocket.New(h.WS.Serve))
}
