package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/conversation"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/orders"
)

const subscribeTimeout = 5 * time.Second

type WSHandler struct {
	Orders        *orders.OrderService
	Conversations *conversation.ConversationService
	Log           *zap.Logger
}

// Upgrade rejects unknown orders with a normal HTTP error before the
// websocket handshake.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	orderID, err := parseUUID("id", c.Params("id"))
	if err != nil {
		return err
	}
	if _, err := h.Orders.Get(c.UserContext(), orderID); err != nil {
		return err
	}
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals("orderId", orderID)
	return c.Next()
}

type wsFrame struct {
	Type string `json:"type"`
}

func (h *WSHandler) Serve(conn *websocket.Conn) {
	orderID, ok := conn.Locals("orderId").(uuid.UUID)
	if !ok {
		_ = conn.Close()
		return
	}
	client := realtime.NewClient(orderID, realtime.NewWebSocketConn(conn))
	log := h.Log.With(zap.String("client_id", client.ID), zap.String("order_id", orderID.String()))

	ctx, cancel := context.WithTimeout(context.Background(), subscribeTimeout)
	err := h.Conversations.Subscribe(ctx, client)
	cancel()
	if err != nil {
		log.Warn("websocket subscribe failed", zap.Error(err))
		_ = client.Conn.Close()
		return
	}
	log.Info("websocket connected")

	// The conn returns to fiber's pool when Serve returns, so the write
	// pump has to be finished by then.
	pumpDone := make(chan struct{})
	go client.WritePump(pumpDone)
	defer func() {
		h.Conversations.Unsubscribe(client)
		<-pumpDone
		log.Info("websocket disconnected")
	}()

	for {
		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("websocket read error", zap.Error(err))
			}
			return
		}
		if frame.Type == "ping" {
			if err := client.Conn.WriteJSON(wsFrame{Type: "pong"}); err != nil {
				return
			}
		}
	}
}
