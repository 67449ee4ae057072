package store

import (
	"context"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/db"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
)

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, db.Classify(err, "list categories", "")
	}
	return out, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	err := s.db.WithContext(ctx).Create(c).Error
	return db.Classify(err, "create category", "category already exists")
}

func (s *Store) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return nil, db.Classify(err, "get category", "category not found")
	}
	return &c, nil
}

func (s *Store) CreateGig(ctx context.Context, g *models.Gig) error {
	if err := s.db.WithContext(ctx).Create(g).Error; err != nil {
		return db.Classify(err, "create gig", "gig already exists")
	}
	return nil
}

func (s *Store) GetGig(ctx context.Context, id uint) (*models.Gig, error) {
	var g models.Gig
	if err := s.db.WithContext(ctx).Preload("Category").First(&g, "id = ?", id).Error; err != nil {
		return nil, db.Classify(err, "get gig", "gig not found")
	}
	return &g, nil
}

func (s *Store) ListGigs(ctx context.Context) ([]models.Gig, error) {
	var out []models.Gig
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, db.Classify(err, "list gigs", "")
	}
	return out, nil
}
