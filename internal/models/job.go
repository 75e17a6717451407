package models

import (
	"time"

	"gorm.io/datatypes"
)

type JobType string

const (
	JobFullTime JobType = "full-time"
	JobPartTime JobType = "part-time"
	JobContract JobType = "contract"
	JobRemote   JobType = "remote"
)

func (t JobType) Valid() bool {
	switch t {
	case JobFullTime, JobPartTime, JobContract, JobRemote:
		return true
	}
	return false
}

type Job struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"not null" json:"title"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Company     string  `gorm:"not null" json:"company"`
	Location    string  `gorm:"not null" json:"location"`
	City        string  `gorm:"not null;index" json:"city"`
	Salary      string  `gorm:"not null" json:"salary"`
	Type        JobType `gorm:"type:varchar(20);not null" json:"type"`
	Category    string  `gorm:"not null;index" json:"category"`

	Requirements datatypes.JSONSlice[string] `json:"requirements"`
	Skills       datatypes.JSONSlice[string] `json:"skills"`
	Experience   string                      `gorm:"not null" json:"experience"`

	EmployerID uint `gorm:"index;not null" json:"employerId"`
	IsActive   bool `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`

	Employer *User `gorm:"foreignKey:EmployerID" json:"-"`
}
