package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/db"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
)

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	err := s.db.WithContext(ctx).Create(o).Error
	return db.Classify(err, "create order", "order already exists")
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, db.Classify(err, "get order", "order not found")
	}
	return &o, nil
}

// UpdateOrderStatus sets the status and, when deliveryDate is non-nil, the
// delivery date in one UPDATE statement, then returns the stored row. Both
// run in one transaction so the returned row is the one just written.
func (s *Store) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, deliveryDate *datatypes.Date) (*models.Order, error) {
	var out models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": status}
		if deliveryDate != nil {
			updates["delivery_date"] = *deliveryDate
		}

		res := tx.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("order not found")
		}
		return tx.First(&out, "id = ?", id).Error
	})
	if err != nil {
		return nil, db.Classify(err, "update order status", "order not found")
	}
	return &out, nil
}

// ListOrdersForUser returns the orders where userID holds role, most
// recent order date first.
func (s *Store) ListOrdersForUser(ctx context.Context, userID uuid.UUID, role models.Role) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Model(&models.Order{})
	switch role {
	case models.RoleBuyer:
		q = q.Where("buyer_id = ?", userID)
	case models.RoleFreelancer:
		q = q.Where("freelancer_id = ?", userID)
	default:
		return nil, apperr.InvalidArgument("invalid role")
	}

	var out []models.Order
	if err := q.Order("order_date DESC").Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, db.Classify(err, "list orders", "")
	}
	return out, nil
}
