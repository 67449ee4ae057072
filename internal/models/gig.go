package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gig is a freelancer's service listing. Immutable once created.
type Gig struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Title       string          `gorm:"not null" json:"title"`
	Description string          `gorm:"type:text;not null" json:"description"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null;check:chk_gigs_price_non_negative,price >= 0" json:"price"`

	CreatedAt time.Time `json:"created_at"`

	Owner    *User     `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
