package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/db"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
)

// CreateReview inserts r. The (order_id, reviewer_id) unique index turns a
// second review into a conflict even when two requests race.
func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	err := s.db.WithContext(ctx).Create(r).Error
	return db.Classify(err, "create review", "you have already reviewed this order")
}

func (s *Store) ListReviewsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Review, error) {
	var out []models.Review
	if err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("review_date DESC").
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, db.Classify(err, "list reviews by order", "")
	}
	return out, nil
}

// ListReviewsByGig joins through orders to collect every review left on an
// order for gigID.
func (s *Store) ListReviewsByGig(ctx context.Context, gigID uint) ([]models.Review, error) {
	var out []models.Review
	if err := s.db.WithContext(ctx).
		Select("reviews.*").
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Where("orders.gig_id = ?", gigID).
		Order("reviews.review_date DESC").
		Order("reviews.created_at DESC").
		Find(&out).Error; err != nil {
		return nil, db.Classify(err, "list reviews by gig", "")
	}
	return out, nil
}
