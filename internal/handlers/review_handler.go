package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/reviews"
)

type ReviewHandler struct {
	Reviews *reviews.ReviewService
}

func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
	var req reviews.SubmitInput
	if err := c.BodyParser(&req); err != nil {
		return errBadBody
	}
	req.ReviewerID = callerOr(c, req.ReviewerID)

	r, err := h.Reviews.Submit(c.UserContext(), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "review submitted", toReviewDTO(r))
}

// List filters by order_id or, failing that, gig_id.
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var (
		list []models.Review
		err  error
	)
	switch {
	case c.Query("order_id") != "":
		orderID, perr := parseUUID("order_id", c.Query("order_id"))
		if perr != nil {
			return perr
		}
		list, err = h.Reviews.ListByOrder(ctx, orderID)
	case c.Query("gig_id") != "":
		gigID, perr := parseUint("gig_id", c.Query("gig_id"))
		if perr != nil {
			return perr
		}
		list, err = h.Reviews.ListByGig(ctx, gigID)
	default:
		return apperr.InvalidArgument("order_id or gig_id is required")
	}
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", mapSlice(list, toReviewDTO))
}
