package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/catalog"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/orders"
)

type OrderHandler struct {
	Orders  *orders.OrderService
	Catalog *catalog.CatalogService
}

type createOrderReq struct {
	GigID        uint      `json:"gig_id"`
	BuyerID      uuid.UUID `json:"buyer_id"`
	FreelancerID uuid.UUID `json:"freelancer_id"`
}

// Create places an order. The buyer defaults to the caller and the
// freelancer to the gig's owner.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req createOrderReq
	if err := c.BodyParser(&req); err != nil {
		return errBadBody
	}
	ctx := c.UserContext()

	freelancer := req.FreelancerID
	if freelancer == uuid.Nil && req.GigID != 0 {
		g, err := h.Catalog.GetGig(ctx, req.GigID)
		if err != nil {
			return err
		}
		freelancer = g.UserID
	}

	o, err := h.Orders.Create(ctx, req.GigID, callerOr(c, req.BuyerID), freelancer)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "order created", toOrderDTO(o))
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseUUID("id", c.Params("id"))
	if err != nil {
		return err
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errBadBody
	}
	o, err := h.Orders.Transition(c.UserContext(), id, req.Status)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "order status updated", toOrderDTO(o))
}

// List returns a user's orders as buyer or freelancer; user_type is
// accepted in place of role.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	uid, err := parseUUID("user_id", c.Query("user_id"))
	if err != nil {
		return err
	}
	role := c.Query("role", c.Query("user_type"))
	list, err := h.Orders.ListForUser(c.UserContext(), uid, role)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", mapSlice(list, toOrderDTO))
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID("id", c.Params("id"))
	if err != nil {
		return err
	}
	o, err := h.Orders.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", toOrderDTO(o))
}
