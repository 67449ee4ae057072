package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is one entry in an order's append-only conversation. ID grows
// with insertion and breaks ties between equal SentAt values.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_order_sent,priority:1" json:"order_id"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	SentAt     time.Time `gorm:"not null;index:idx_messages_order_sent,priority:2" json:"sent_at"`

	Order    *Order `gorm:"foreignKey:OrderID" json:"-"`
	Sender   *User  `gorm:"foreignKey:SenderID" json:"-"`
	Receiver *User  `gorm:"foreignKey:ReceiverID" json:"-"`
}
