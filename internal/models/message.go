package models

import "time"

// Message belongs to an Order thread. The receiver is always "the other party":
// the task's freelancer when the buyer writes, the buyer otherwise. Immutable
// once created.
type Message struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	SenderID   uint   `gorm:"index;not null" json:"senderId"`
	ReceiverID uint   `gorm:"index;not null" json:"receiverId"`
	OrderID    uint   `gorm:"index;not null" json:"orderId"`
	Content    string `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `json:"createdAt"`

	Sender   *User  `gorm:"foreignKey:SenderID" json:"-"`
	Receiver *User  `gorm:"foreignKey:ReceiverID" json:"-"`
	Order    *Order `gorm:"foreignKey:OrderID" json:"-"`
}
