package models

import "time"

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}

// Application is a job seeker's submission against a Job. At most one per
// (jobId, applicantId) pair; the route layer rejects duplicates before insert.
type Application struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	JobID       uint              `gorm:"index;not null" json:"jobId"`
	ApplicantID uint              `gorm:"index;not null" json:"applicantId"`
	Status      ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CoverLetter string            `gorm:"type:text" json:"coverLetter"`

	CreatedAt time.Time `json:"createdAt"`

	Job       *Job  `gorm:"foreignKey:JobID" json:"-"`
	Applicant *User `gorm:"foreignKey:ApplicantID" json:"-"`
}
