package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Review is unique per (order, reviewer); the index below is what
// enforces it.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_order_reviewer,priority:1" json:"order_id"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_order_reviewer,priority:2;index" json:"reviewer_id"`

	Rating  int    `gorm:"type:smallint;not null;check:chk_reviews_rating_range,rating BETWEEN 1 AND 5" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	ReviewDate datatypes.Date `gorm:"not null" json:"review_date"`
	CreatedAt  time.Time      `json:"created_at"`

	Order    *Order `gorm:"foreignKey:OrderID" json:"-"`
	Reviewer *User  `gorm:"foreignKey:ReviewerID" json:"-"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
