package models

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderInProgress, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order is a buyer's purchase of a Task. The seller is reached through
// Task.FreelancerID; there is no direct seller column. DeliveryDate is computed
// once at creation from the task's delivery time and frozen thereafter.
type Order struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	TaskID       uint        `gorm:"index;not null" json:"taskId"`
	BuyerID      uint        `gorm:"index;not null" json:"buyerId"`
	Status       OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Requirements string      `gorm:"type:text" json:"requirements"`
	DeliveryDate time.Time   `json:"deliveryDate"`

	CreatedAt time.Time `json:"createdAt"`

	// No DB constraint on TaskID: orders outlive deleted tasks, and the
	// delivery-date fallback covers the dangling case.
	Task  *Task `gorm:"-" json:"-"`
	Buyer *User `gorm:"foreignKey:BuyerID" json:"-"`
}
