package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus accepts exactly the four lifecycle statuses.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(strings.TrimSpace(s)); st {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return st, true
	}
	return "", false
}

// Order is a buyer's purchase of a gig. DeliveryDate is stamped when the
// order is completed and is not cleared by later transitions.
type Order struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GigID        uint        `gorm:"not null;index" json:"gig_id"`
	BuyerID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"buyer_id"`
	FreelancerID uuid.UUID   `gorm:"type:uuid;not null;index" json:"freelancer_id"`
	Status       OrderStatus `gorm:"type:varchar(20);not null;default:pending" json:"status"`

	OrderDate    datatypes.Date  `gorm:"not null" json:"order_date"`
	DeliveryDate *datatypes.Date `json:"delivery_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Gig        *Gig  `gorm:"foreignKey:GigID" json:"gig,omitempty"`
	Buyer      *User `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	Freelancer *User `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// Today truncates t to its calendar date.
func Today(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, t.Location()))
}
