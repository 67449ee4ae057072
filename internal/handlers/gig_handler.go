package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/catalog"
)

type GigHandler struct {
	Catalog *catalog.CatalogService
}

func NewGigHandler(svc *catalog.CatalogService) *GigHandler {
	return &GigHandler{Catalog: svc}
}

type createGigReq struct {
	UserID      uuid.UUID        `json:"user_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       *decimal.Decimal `json:"price"`
}

func (h *GigHandler) Create(c *fiber.Ctx) error {
	var req createGigReq
	if err := c.BodyParser(&req); err != nil {
		return errBadBody
	}
	if req.Price == nil {
		return apperr.InvalidArgument("price is required")
	}
	g, err := h.Catalog.CreateGig(c.UserContext(), catalog.GigInput{
		OwnerID:      callerOr(c, req.UserID),
		Title:        req.Title,
		Description:  req.Description,
		CategoryName: req.Category,
		Price:        *req.Price,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "gig created", toGigDTO(g))
}

func (h *GigHandler) List(c *fiber.Ctx) error {
	gigs, err := h.Catalog.ListGigs(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", mapSlice(gigs, toGigDTO))
}

func (h *GigHandler) Get(c *fiber.Ctx) error {
	id, err := parseUint("id", c.Params("id"))
	if err != nil {
		return err
	}
	g, err := h.Catalog.GetGig(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", toGigDTO(g))
}
