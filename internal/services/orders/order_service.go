package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/utils"
)

type Store interface {
	GetGig(ctx context.Context, id uint) (*models.Gig, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, deliveryDate *datatypes.Date) (*models.Order, error)
	ListOrdersForUser(ctx context.Context, userID uuid.UUID, role models.Role) ([]models.Order, error)
}

// OrderService owns the order lifecycle. Any status may follow any other;
// completing an order stamps its delivery date.
type OrderService struct {
	store Store
	log   *zap.Logger

	// Now is the clock used for order and delivery dates.
	Now func() time.Time
}

func NewOrderService(store Store, log *zap.Logger) *OrderService {
	return &OrderService{store: store, log: log, Now: time.Now}
}

type createInput struct {
	GigID        uint      `json:"gig_id" validate:"required"`
	BuyerID      uuid.UUID `json:"buyer_id" validate:"required"`
	FreelancerID uuid.UUID `json:"freelancer_id" validate:"required"`
}

func (s *OrderService) Create(ctx context.Context, gigID uint, buyerID, freelancerID uuid.UUID) (*models.Order, error) {
	if err := utils.ValidateStruct(createInput{GigID: gigID, BuyerID: buyerID, FreelancerID: freelancerID}); err != nil {
		return nil, err
	}

	if _, err := s.store.GetGig(ctx, gigID); err != nil {
		return nil, renameNotFound(err, "gig not found")
	}
	if _, err := s.store.GetUser(ctx, buyerID); err != nil {
		return nil, renameNotFound(err, "buyer not found")
	}
	if _, err := s.store.GetUser(ctx, freelancerID); err != nil {
		return nil, renameNotFound(err, "freelancer not found")
	}

	o := &models.Order{
		GigID:        gigID,
		BuyerID:      buyerID,
		FreelancerID: freelancerID,
		Status:       models.OrderStatusPending,
		OrderDate:    models.Today(s.Now()),
	}
	if err := s.store.CreateOrder(ctx, o); err != nil {
		return nil, err
	}
	s.log.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.Uint("gig_id", gigID),
		zap.String("buyer_id", buyerID.String()),
	)
	return o, nil
}

// Transition sets the order's status. Moving to completed stamps today's
// delivery date in the same update; other statuses leave it as it was.
func (s *OrderService) Transition(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, apperr.InvalidArgument("order id is required")
	}
	st, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, apperr.Newf(apperr.CodeInvalidArgument,
			"invalid status %q: must be one of pending, in_progress, completed, cancelled", status)
	}

	var delivery *datatypes.Date
	if st == models.OrderStatusCompleted {
		d := models.Today(s.Now())
		delivery = &d
	}

	o, err := s.store.UpdateOrderStatus(ctx, orderID, st, delivery)
	if err != nil {
		return nil, err
	}
	s.log.Info("order status changed",
		zap.String("order_id", orderID.String()),
		zap.String("status", string(st)),
	)
	return o, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, role string) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, apperr.InvalidArgument("user_id is required")
	}
	r, ok := models.ParseRole(role)
	if !ok {
		return nil, apperr.InvalidArgument("role must be buyer or freelancer")
	}
	return s.store.ListOrdersForUser(ctx, userID, r)
}

func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, apperr.InvalidArgument("order id is required")
	}
	return s.store.GetOrder(ctx, orderID)
}

func renameNotFound(err error, msg string) error {
	if apperr.Is(err, apperr.CodeNotFound) {
		return apperr.NotFound(msg)
	}
	return err
}
