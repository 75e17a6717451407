package models

import (
	"time"

	"gorm.io/datatypes"
)

// Task is a freelancer-posted gig with a fixed price (in taka) and a fixed
// delivery time in days.
type Task struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Title        string `gorm:"not null" json:"title"`
	Description  string `gorm:"type:text;not null" json:"description"`
	Category     string `gorm:"not null;index" json:"category"`
	Price        int    `gorm:"not null" json:"price"`
	DeliveryTime int    `gorm:"not null" json:"deliveryTime"`

	Images datatypes.JSONSlice[string] `json:"images"`

	FreelancerID uint `gorm:"index;not null" json:"freelancerId"`
	IsActive     bool `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`

	Freelancer *User `gorm:"foreignKey:FreelancerID" json:"-"`
}
