// internal/realtime/hub.go
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sendBuffer is how many undelivered frames a subscriber may hold before
// it is dropped as a slow consumer.
const sendBuffer = 64

var ErrHubClosed = errors.New("realtime: hub closed")

type Client struct {
	ID      string
	OrderID uuid.UUID
	Conn    *WebSocketConn
	Send    chan []byte
}

func NewClient(orderID uuid.UUID, conn *WebSocketConn) *Client {
	return &Client{
		ID:      uuid.NewString(),
		OrderID: orderID,
		Conn:    conn,
		Send:    make(chan []byte, sendBuffer),
	}
}

type delivery struct {
	orderID uuid.UUID
	payload []byte
}

// Hub fans frames out to the subscribers of one order. A single goroutine
// (Run) owns room membership; delivery never blocks on a subscriber.
type Hub struct {
	rooms      map[uuid.UUID]map[string]*Client
	broadcast  chan delivery
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[string]*Client),
		broadcast:  make(chan delivery, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Subscribe(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) Unsubscribe(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish marshals v and queues it for every subscriber of orderID.
func (h *Hub) Publish(ctx context.Context, orderID uuid.UUID, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return h.PublishRaw(ctx, orderID, b)
}

// PublishRaw queues an already encoded frame. Frames for one order are
// delivered in the order they are queued.
func (h *Hub) PublishRaw(ctx context.Context, orderID uuid.UUID, payload []byte) error {
	// broadcast is buffered, so after Run exits both cases below are ready.
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}
	select {
	case h.broadcast <- delivery{orderID: orderID, payload: payload}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubClosed
	}
}

func (h *Hub) SubscriberCount(orderID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[orderID])
}

// Run owns the rooms until ctx is cancelled, then closes every subscriber.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil

		case client := <-h.register:
			h.mu.Lock()
			room, ok := h.rooms[client.OrderID]
			if !ok {
				room = make(map[string]*Client)
				h.rooms[client.OrderID] = room
			}
			room[client.ID] = client
			h.mu.Unlock()
			h.log.Debug("subscriber joined",
				zap.String("client_id", client.ID),
				zap.String("order_id", client.OrderID.String()),
			)

		case client := <-h.unregister:
			h.mu.Lock()
			if old, ok := h.rooms[client.OrderID][client.ID]; ok && old == client {
				h.remove(client)
			}
			h.mu.Unlock()

		case d := <-h.broadcast:
			h.mu.Lock()
			for _, client := range h.rooms[d.orderID] {
				select {
				case client.Send <- d.payload:
				default:
					h.remove(client)
					h.log.Warn("dropping slow subscriber",
						zap.String("client_id", client.ID),
						zap.String("order_id", d.orderID.String()),
					)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(client *Client) {
	room := h.rooms[client.OrderID]
	delete(room, client.ID)
	if len(room) == 0 {
		delete(h.rooms, client.OrderID)
	}
	close(client.Send)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range h.rooms {
		for _, client := range room {
			close(client.Send)
		}
	}
	h.rooms = make(map[uuid.UUID]map[string]*Client)
}
