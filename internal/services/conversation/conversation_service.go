package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/utils"
)

const EventMessageCreated = "message.created"

type Store interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	CreateMessage(ctx context.Context, m *models.Message) error
	ListMessages(ctx context.Context, orderID uuid.UUID) ([]models.Message, error)
}

// Users answers whether an account exists.
type Users interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Publisher delivers an event to everyone subscribed to an order.
type Publisher interface {
	Publish(ctx context.Context, orderID uuid.UUID, v any) error
}

// Rooms tracks which realtime clients listen to which order.
type Rooms interface {
	Subscribe(c *realtime.Client)
	Unsubscribe(c *realtime.Client)
}

type Event struct {
	Type    string         `json:"type"`
	OrderID uuid.UUID      `json:"order_id"`
	Message models.Message `json:"message"`
}

type ConversationService struct {
	store Store
	users Users
	pub   Publisher
	rooms Rooms
	log   *zap.Logger
	locks orderLocks

	Now func() time.Time
}

func NewConversationService(store Store, users Users, pub Publisher, rooms Rooms, log *zap.Logger) *ConversationService {
	return &ConversationService{
		store: store,
		users: users,
		pub:   pub,
		rooms: rooms,
		log:   log,
		locks: orderLocks{m: make(map[uuid.UUID]*orderLock)},
		Now:   time.Now,
	}
}

type PostInput struct {
	OrderID    uuid.UUID `json:"order_id" validate:"required"`
	SenderID   uuid.UUID `json:"sender_id" validate:"required"`
	ReceiverID uuid.UUID `json:"receiver_id" validate:"required"`
	Text       string    `json:"message" validate:"required,notblank"`
}

// Post appends a message to the order's conversation and then notifies the
// order's subscribers. Notification failures are logged; the message is
// already stored.
func (s *ConversationService) Post(ctx context.Context, in PostInput) (*models.Message, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	if _, err := s.store.GetOrder(ctx, in.OrderID); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, in.SenderID, "sender not found"); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, in.ReceiverID, "receiver not found"); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(in.OrderID)
	defer unlock()

	msg := &models.Message{
		OrderID:    in.OrderID,
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Text:       in.Text,
		SentAt:     s.Now().UTC().Truncate(time.Microsecond),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	ev := Event{Type: EventMessageCreated, OrderID: msg.OrderID, Message: *msg}
	if err := s.pub.Publish(ctx, msg.OrderID, ev); err != nil {
		s.log.Warn("message notification failed",
			zap.String("order_id", msg.OrderID.String()),
			zap.Uint("message_id", msg.ID),
			zap.Error(err),
		)
	}
	return msg, nil
}

func (s *ConversationService) requireUser(ctx context.Context, id uuid.UUID, notFound string) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound(notFound)
	}
	return nil
}

func (s *ConversationService) List(ctx context.Context, orderID uuid.UUID) ([]models.Message, error) {
	if orderID == uuid.Nil {
		return nil, apperr.InvalidArgument("order_id is required")
	}
	return s.store.ListMessages(ctx, orderID)
}

// Subscribe attaches c to its order's room. Knowing the order id is
// sufficient; the order only has to exist.
func (s *ConversationService) Subscribe(ctx context.Context, c *realtime.Client) error {
	if _, err := s.store.GetOrder(ctx, c.OrderID); err != nil {
		return err
	}
	s.rooms.Subscribe(c)
	return nil
}

func (s *ConversationService) Unsubscribe(c *realtime.Client) {
	s.rooms.Unsubscribe(c)
}

// orderLocks hands out one mutex per order, released when unused.
type orderLocks struct {
	mu sync.Mutex
	m  map[uuid.UUID]*orderLock
}

type orderLock struct {
	sync.Mutex
	refs int
}

func (l *orderLocks) lock(id uuid.UUID) (unlock func()) {
	l.mu.Lock()
	ol, ok := l.m[id]
	if !ok {
		ol = &orderLock{}
		l.m[id] = ol
	}
	ol.refs++
	l.mu.Unlock()

	ol.Lock()
	return func() {
		ol.Unlock()
		l.mu.Lock()
		ol.refs--
		if ol.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}
