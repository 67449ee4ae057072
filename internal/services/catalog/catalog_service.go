package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/utils"
)

type Store interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	CreateGig(ctx context.Context, g *models.Gig) error
	GetGig(ctx context.Context, id uint) (*models.Gig, error)
	ListGigs(ctx context.Context) ([]models.Gig, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type CatalogService struct {
	store Store
	log   *zap.Logger
}

func NewCatalogService(store Store, log *zap.Logger) *CatalogService {
	return &CatalogService{store: store, log: log}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidArgument("name is required")
	}
	c := &models.Category{Name: name}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

type GigInput struct {
	OwnerID      uuid.UUID       `json:"user_id" validate:"-"`
	Title        string          `json:"title" validate:"required,max=255"`
	Description  string          `json:"description" validate:"required"`
	CategoryName string          `json:"category" validate:"required"`
	Price        decimal.Decimal `json:"price" validate:"-"`
}

// CreateGig lists a new gig for an existing owner under a category looked up
// by name. Prices are kept to two decimal places.
func (s *CatalogService) CreateGig(ctx context.Context, in GigInput) (*models.Gig, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.CategoryName = strings.TrimSpace(in.CategoryName)
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	if in.OwnerID == uuid.Nil {
		return nil, apperr.InvalidArgument("user_id is required")
	}
	if in.Price.IsNegative() {
		return nil, apperr.InvalidArgument("price must not be negative")
	}

	if _, err := s.store.GetUser(ctx, in.OwnerID); err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return nil, apperr.NotFound("owner not found")
		}
		return nil, err
	}
	cat, err := s.store.GetCategoryByName(ctx, in.CategoryName)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return nil, apperr.InvalidArgument(fmt.Sprintf("unknown category %q", in.CategoryName))
		}
		return nil, err
	}

	g := &models.Gig{
		UserID:      in.OwnerID,
		Title:       in.Title,
		Description: in.Description,
		CategoryID:  cat.ID,
		Price:       in.Price.Round(2),
	}
	if err := s.store.CreateGig(ctx, g); err != nil {
		return nil, err
	}
	g.Category = cat
	s.log.Info("gig created", zap.Uint("gig_id", g.ID), zap.String("owner_id", g.UserID.String()))
	return g, nil
}

func (s *CatalogService) ListGigs(ctx context.Context) ([]models.Gig, error) {
	return s.store.ListGigs(ctx)
}

func (s *CatalogService) GetGig(ctx context.Context, id uint) (*models.Gig, error) {
	if id == 0 {
		return nil, apperr.InvalidArgument("gig id is required")
	}
	return s.store.GetGig(ctx, id)
}
