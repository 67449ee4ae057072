package reviews

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/utils"
)

type Store interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateReview(ctx context.Context, r *models.Review) error
	ListReviewsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Review, error)
	ListReviewsByGig(ctx context.Context, gigID uint) ([]models.Review, error)
}

type ReviewService struct {
	store Store
	log   *zap.Logger

	Now func() time.Time
}

func NewReviewService(store Store, log *zap.Logger) *ReviewService {
	return &ReviewService{store: store, log: log, Now: time.Now}
}

type SubmitInput struct {
	OrderID    uuid.UUID `json:"order_id" validate:"required"`
	ReviewerID uuid.UUID `json:"reviewer_id" validate:"required"`
	Rating     int       `json:"rating" validate:"min=1,max=5"`
	Comment    string    `json:"comment"`
}

// Submit records a reviewer's single review of an order. A second review
// by the same reviewer is rejected by the unique index as a conflict.
func (s *ReviewService) Submit(ctx context.Context, in SubmitInput) (*models.Review, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}

	if _, err := s.store.GetOrder(ctx, in.OrderID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, in.ReviewerID); err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return nil, apperr.NotFound("reviewer not found")
		}
		return nil, err
	}

	r := &models.Review{
		OrderID:    in.OrderID,
		ReviewerID: in.ReviewerID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
		ReviewDate: models.Today(s.Now()),
	}
	if err := s.store.CreateReview(ctx, r); err != nil {
		return nil, err
	}
	s.log.Info("review submitted",
		zap.String("review_id", r.ID.String()),
		zap.String("order_id", r.OrderID.String()),
		zap.Int("rating", r.Rating),
	)
	return r, nil
}

func (s *ReviewService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Review, error) {
	if orderID == uuid.Nil {
		return nil, apperr.InvalidArgument("order_id is required")
	}
	return s.store.ListReviewsByOrder(ctx, orderID)
}

func (s *ReviewService) ListByGig(ctx context.Context, gigID uint) ([]models.Review, error) {
	if gigID == 0 {
		return nil, apperr.InvalidArgument("gig_id is required")
	}
	return s.store.ListReviewsByGig(ctx, gigID)
}
