package handlers

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
)

func formatDate(d datatypes.Date) string {
	return time.Time(d).Format(time.DateOnly)
}

type userDTO struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

type gigDTO struct {
	ID           uint      `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CategoryID   uint      `json:"category_id"`
	CategoryName string    `json:"category"`
	Price        string    `json:"price"`
	CreatedAt    time.Time `json:"created_at"`
}

func toGigDTO(g *models.Gig) gigDTO {
	dto := gigDTO{
		ID:          g.ID,
		UserID:      g.UserID,
		Title:       g.Title,
		Description: g.Description,
		CategoryID:  g.CategoryID,
		Price:       g.Price.StringFixed(2),
		CreatedAt:   g.CreatedAt,
	}
	if g.Category != nil {
		dto.CategoryName = g.Category.Name
	}
	return dto
}

type orderDTO struct {
	ID           uuid.UUID          `json:"id"`
	GigID        uint               `json:"gig_id"`
	BuyerID      uuid.UUID          `json:"buyer_id"`
	FreelancerID uuid.UUID          `json:"freelancer_id"`
	Status       models.OrderStatus `json:"status"`
	OrderDate    string             `json:"order_date"`
	DeliveryDate *string            `json:"delivery_date"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func toOrderDTO(o *models.Order) orderDTO {
	dto := orderDTO{
		ID:           o.ID,
		GigID:        o.GigID,
		BuyerID:      o.BuyerID,
		FreelancerID: o.FreelancerID,
		Status:       o.Status,
		OrderDate:    formatDate(o.OrderDate),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	if o.DeliveryDate != nil {
		s := formatDate(*o.DeliveryDate)
		dto.DeliveryDate = &s
	}
	return dto
}

type reviewDTO struct {
	ID         uuid.UUID `json:"id"`
	OrderID    uuid.UUID `json:"order_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	ReviewDate string    `json:"review_date"`
	CreatedAt  time.Time `json:"created_at"`
}

func toReviewDTO(r *models.Review) reviewDTO {
	return reviewDTO{
		ID:         r.ID,
		OrderID:    r.OrderID,
		ReviewerID: r.ReviewerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		ReviewDate: formatDate(r.ReviewDate),
		CreatedAt:  r.CreatedAt,
	}
}

func mapSlice[T, D any](in []T, f func(*T) D) []D {
	out := make([]D, 0, len(in))
	for i := range in {
		out = append(out, f(&in[i]))
	}
	return out
}
