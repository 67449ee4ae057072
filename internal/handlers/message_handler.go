package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/conversation"
)

type MessageHandler struct {
	Conversations *conversation.ConversationService
}

func (h *MessageHandler) Post(c *fiber.Ctx) error {
	var req conversation.PostInput
	if err := c.BodyParser(&req); err != nil {
		return errBadBody
	}
	req.SenderID = callerOr(c, req.SenderID)

	msg, err := h.Conversations.Post(c.UserContext(), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "message sent", msg)
}

func (h *MessageHandler) List(c *fiber.Ctx) error {
	orderID, err := parseUUID("order_id", c.Query("order_id"))
	if err != nil {
		return err
	}
	msgs, err := h.Conversations.List(c.UserContext(), orderID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", msgs)
}
