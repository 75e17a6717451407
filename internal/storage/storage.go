package storage

import (
	"context"
	"errors"

	"gorm.io/datatypes"

	"github.com/kajbd/kajbd-backend/internal/models"
)

// Both backends report constraint failures through the same sentinels so the
// route layer never needs to know which one is behind the interface.
var (
	ErrDuplicate  = errors.New("record already exists")
	ErrForeignKey = errors.New("referenced record does not exist")
)

// Fallback used for Order.DeliveryDate when the referenced task cannot be
// resolved at creation time. Policy, not an error path.
const DefaultDeliveryDays = 7

type JobFilters struct {
	City     string
	Category string
	Search   string
}

type TaskFilters struct {
	Category string
	Search   string
}

// Partial updates: nil fields are left untouched. Shared apply methods keep the
// merge semantics identical across backends.

type UserUpdate struct {
	FullName *string
	City     *string
	Avatar   *string
	Bio      *string
	Skills   *[]string
	Password *string
}

func (u UserUpdate) Apply(m *models.User) {
	if u.FullName != nil {
		m.FullName = *u.FullName
	}
	if u.City != nil {
		m.City = *u.City
	}
	if u.Avatar != nil {
		m.Avatar = *u.Avatar
	}
	if u.Bio != nil {
		m.Bio = *u.Bio
	}
	if u.Skills != nil {
		m.Skills = datatypes.JSONSlice[string](*u.Skills)
	}
	if u.Password != nil {
		m.Password = *u.Password
	}
}

type JobUpdate struct {
	Title        *string
	Description  *string
	Company      *string
	Location     *string
	City         *string
	Salary       *string
	Type         *models.JobType
	Category     *string
	Requirements *[]string
	Skills       *[]string
	Experience   *string
	IsActive     *bool
}

func (u JobUpdate) Apply(m *models.Job) {
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Company != nil {
		m.Company = *u.Company
	}
	if u.Location != nil {
		m.Location = *u.Location
	}
	if u.City != nil {
		m.City = *u.City
	}
	if u.Salary != nil {
		m.Salary = *u.Salary
	}
	if u.Type != nil {
		m.Type = *u.Type
	}
	if u.Category != nil {
		m.Category = *u.Category
	}
	if u.Requirements != nil {
		m.Requirements = datatypes.JSONSlice[string](*u.Requirements)
	}
	if u.Skills != nil {
		m.Skills = datatypes.JSONSlice[string](*u.Skills)
	}
	if u.Experience != nil {
		m.Experience = *u.Experience
	}
	if u.IsActive != nil {
		m.IsActive = *u.IsActive
	}
}

type TaskUpdate struct {
	Title        *string
	Description  *string
	Category     *string
	Price        *int
	DeliveryTime *int
	Images       *[]string
	IsActive     *bool
}

func (u TaskUpdate) Apply(m *models.Task) {
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Category != nil {
		m.Category = *u.Category
	}
	if u.Price != nil {
		m.Price = *u.Price
	}
	if u.DeliveryTime != nil {
		m.DeliveryTime = *u.DeliveryTime
	}
	if u.Images != nil {
		m.Images = datatypes.JSONSlice[string](*u.Images)
	}
	if u.IsActive != nil {
		m.IsActive = *u.IsActive
	}
}

type ApplicationUpdate struct {
	Status      *models.ApplicationStatus
	CoverLetter *string
}

func (u ApplicationUpdate) Apply(m *models.Application) {
	if u.Status != nil {
		m.Status = *u.Status
	}
	if u.CoverLetter != nil {
		m.CoverLetter = *u.CoverLetter
	}
}

type OrderUpdate struct {
	Status       *models.OrderStatus
	Requirements *string
}

func (u OrderUpdate) Apply(m *models.Order) {
	if u.Status != nil {
		m.Status = *u.Status
	}
	if u.Requirements != nil {
		m.Requirements = *u.Requirements
	}
}

// Storage is the sole owner of entity persistence. Get methods return (nil, nil)
// for a missing id, updates never upsert, and deletes are idempotent. Filtered
// lists only see isActive records, combine filters with AND, compare
// city/category case-insensitively, substring-match search, and order
// newest-created-first (id descending breaks ties).
type Storage interface {
	// Users
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, id uint, upd UserUpdate) (*models.User, error)

	// Jobs
	GetJob(ctx context.Context, id uint) (*models.Job, error)
	ListJobs(ctx context.Context, f JobFilters) ([]models.Job, error)
	ListJobsByEmployer(ctx context.Context, employerID uint) ([]models.Job, error)
	CreateJob(ctx context.Context, j *models.Job) error
	UpdateJob(ctx context.Context, id uint, upd JobUpdate) (*models.Job, error)
	DeleteJob(ctx context.Context, id uint) (bool, error)

	// Tasks
	GetTask(ctx context.Context, id uint) (*models.Task, error)
	ListTasks(ctx context.Context, f TaskFilters) ([]models.Task, error)
	ListTasksByFreelancer(ctx context.Context, freelancerID uint) ([]models.Task, error)
	CreateTask(ctx context.Context, t *models.Task) error
	UpdateTask(ctx context.Context, id uint, upd TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, id uint) (bool, error)

	// Applications
	GetApplication(ctx context.Context, id uint) (*models.Application, error)
	ListApplicationsByJob(ctx context.Context, jobID uint) ([]models.Application, error)
	ListApplicationsByApplicant(ctx context.Context, applicantID uint) ([]models.Application, error)
	CreateApplication(ctx context.Context, a *models.Application) error
	UpdateApplication(ctx context.Context, id uint, upd ApplicationUpdate) (*models.Application, error)

	// Orders. The seller listing joins through tasks: orders whose task belongs
	// to the given freelancer.
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	ListOrdersByTask(ctx context.Context, taskID uint) ([]models.Order, error)
	ListOrdersByBuyer(ctx context.Context, buyerID uint) ([]models.Order, error)
	ListOrdersBySeller(ctx context.Context, sellerID uint) ([]models.Order, error)
	CreateOrder(ctx context.Context, o *models.Order) error
	UpdateOrder(ctx context.Context, id uint, upd OrderUpdate) (*models.Order, error)

	// Messages, oldest first within a thread.
	ListMessagesByOrder(ctx context.Context, orderID uint) ([]models.Message, error)
	ListMessagesBetweenUsers(ctx context.Context, user1ID, user2ID uint) ([]models.Message, error)
	CreateMessage(ctx context.Context, m *models.Message) error
}
