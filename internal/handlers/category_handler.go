package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/catalog"
)

type CategoryHandler struct {
	Catalog *catalog.CatalogService
}

func NewCategoryHandler(svc *catalog.CatalogService) *CategoryHandler {
	return &CategoryHandler{Catalog: svc}
}

func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", cats)
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errBadBody
	}
	cat, err := h.Catalog.CreateCategory(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "category created", cat)
}
