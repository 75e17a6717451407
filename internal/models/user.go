package models

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleJobSeeker  Role = "job_seeker"
	RoleEmployer   Role = "employer"
	RoleFreelancer Role = "freelancer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleJobSeeker, RoleEmployer, RoleFreelancer:
		return true
	}
	return false
}

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`

	Password string `gorm:"not null" json:"-"`

	FullName string `gorm:"not null" json:"fullName"`
	Role     Role   `gorm:"type:varchar(20);not null;index" json:"role"`
	City     string `json:"city"`
	Avatar   string `json:"avatar"`
	Bio      string `gorm:"type:text" json:"bio"`

	Skills datatypes.JSONSlice[string] `json:"skills"`

	CreatedAt time.Time `json:"createdAt"`
}
