package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kajbd/kajbd-backend/internal/models"
)

// Presentation mapping for denormalized responses: each primary entity carries
// a projected summary of its referenced owner. Only safe public fields are
// projected; the password never leaves the model (json:"-") and never appears
// here either.

func employerSummary(u *models.User) fiber.Map {
	if u == nil {
		return nil
	}
	return fiber.Map{
		"id":       u.ID,
		"fullName": u.FullName,
		"avatar":   u.Avatar,
	}
}

func freelancerSummary(u *models.User) fiber.Map {
	if u == nil {
		return nil
	}
	return fiber.Map{
		"id":       u.ID,
		"fullName": u.FullName,
		"username": u.Username,
		"avatar":   u.Avatar,
		"bio":      u.Bio,
	}
}

func participantSummary(u *models.User) fiber.Map {
	if u == nil {
		return nil
	}
	return fiber.Map{
		"id":       u.ID,
		"fullName": u.FullName,
		"username": u.Username,
	}
}

func jobSummary(j *models.Job) fiber.Map {
	if j == nil {
		return nil
	}
	return fiber.Map{
		"id":       j.ID,
		"title":    j.Title,
		"company":  j.Company,
		"location": j.Location,
	}
}

func taskSummary(t *models.Task) fiber.Map {
	if t == nil {
		return nil
	}
	return fiber.Map{
		"id":    t.ID,
		"title": t.Title,
		"price": t.Price,
	}
}

type jobResponse struct {
	models.Job
	Employer fiber.Map `json:"employer"`
}

type taskResponse struct {
	models.Task
	Freelancer fiber.Map `json:"freelancer"`
}

type applicationResponse struct {
	models.Application
	Job fiber.Map `json:"job"`
}

type jobApplicationResponse struct {
	models.Application
	Applicant fiber.Map `json:"applicant"`
}

type orderResponse struct {
	models.Order
	Task       fiber.Map `json:"task"`
	Freelancer fiber.Map `json:"freelancer,omitempty"`
	Buyer      fiber.Map `json:"buyer,omitempty"`
}
