package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/directory"
)

type UserHandler struct {
	Users *directory.DirectoryService
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID("id", c.Params("id"))
	if err != nil {
		return err
	}
	u, err := h.Users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", toUserDTO(u))
}
