package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/db"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
)

func (s *Store) CreateMessage(ctx context.Context, m *models.Message) error {
	err := s.db.WithContext(ctx).Create(m).Error
	return db.Classify(err, "create message", "message already exists")
}

// ListMessages returns the conversation in chronological order; equal
// timestamps keep insertion order.
func (s *Store) ListMessages(ctx context.Context, orderID uuid.UUID) ([]models.Message, error) {
	var out []models.Message
	if err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("sent_at ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, db.Classify(err, "list messages", "")
	}
	return out, nil
}
