package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kajbd/kajbd-backend/internal/models"
)

// GormStorage is the durable backend. Filters compile to conjunctive WHERE
// clauses and the seller-order listing is a JOIN between orders and tasks.
// The *gorm.DB must be opened with TranslateError so constraint violations map
// onto the shared sentinels.
type GormStorage struct {
	db *gorm.DB
}

var _ Storage = (*GormStorage)(nil)

func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	default:
		return err
	}
}

// escapeLike neutralizes LIKE metacharacters so search terms match literally,
// the same way the in-memory backend's substring match does.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func getByID[T any](ctx context.Context, db *gorm.DB, id uint) (*T, error) {
	var m T
	err := db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Users

func (s *GormStorage) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return getByID[models.User](ctx, s.db, id)
}

func (s *GormStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormStorage) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *GormStorage) UpdateUser(ctx context.Context, id uint, upd UserUpdate) (*models.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	upd.Apply(u)
	if err := translate(s.db.WithContext(ctx).Save(u).Error); err != nil {
		return nil, err
	}
	return u, nil
}

// Jobs

func (s *GormStorage) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	return getByID[models.Job](ctx, s.db, id)
}

func (s *GormStorage) ListJobs(ctx context.Context, f JobFilters) ([]models.Job, error) {
	q := s.db.WithContext(ctx).Model(&models.Job{}).Where("is_active = ?", true)
	if f.City != "" {
		q = q.Where("LOWER(city) = LOWER(?)", f.City)
	}
	if f.Category != "" {
		q = q.Where("LOWER(category) = LOWER(?)", f.Category)
	}
	if f.Search != "" {
		like := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(company) LIKE ? ESCAPE '\'`, like, like, like)
	}

	var jobs []models.Job
	if err := q.Order("created_at DESC, id DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *GormStorage) ListJobsByEmployer(ctx context.Context, employerID uint) ([]models.Job, error) {
	var jobs []models.Job
	err := s.db.WithContext(ctx).
		Where("employer_id = ?", employerID).
		Order("created_at DESC, id DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *GormStorage) CreateJob(ctx context.Context, j *models.Job) error {
	return translate(s.db.WithContext(ctx).Create(j).Error)
}

func (s *GormStorage) UpdateJob(ctx context.Context, id uint, upd JobUpdate) (*models.Job, error) {
	j, err := s.GetJob(ctx, id)
	if err != nil || j == nil {
		return nil, err
	}
	upd.Apply(j)
	if err := translate(s.db.WithContext(ctx).Save(j).Error); err != nil {
		return nil, err
	}
	return j, nil
}

func (s *GormStorage) DeleteJob(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Job{}, id)
	return res.RowsAffected > 0, res.Error
}

// Tasks

func (s *GormStorage) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	return getByID[models.Task](ctx, s.db, id)
}

func (s *GormStorage) ListTasks(ctx context.Context, f TaskFilters) ([]models.Task, error) {
	q := s.db.WithContext(ctx).Model(&models.Task{}).Where("is_active = ?", true)
	if f.Category != "" {
		q = q.Where("LOWER(category) = LOWER(?)", f.Category)
	}
	if f.Search != "" {
		like := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, like, like)
	}

	var tasks []models.Task
	if err := q.Order("created_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *GormStorage) ListTasksByFreelancer(ctx context.Context, freelancerID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Where("freelancer_id = ?", freelancerID).
		Order("created_at DESC, id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *GormStorage) CreateTask(ctx context.Context, t *models.Task) error {
	return translate(s.db.WithContext(ctx).Create(t).Error)
}

func (s *GormStorage) UpdateTask(ctx context.Context, id uint, upd TaskUpdate) (*models.Task, error) {
	t, err := s.GetTask(ctx, id)
	if err != nil || t == nil {
		return nil, err
	}
	upd.Apply(t)
	if err := translate(s.db.WithContext(ctx).Save(t).Error); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *GormStorage) DeleteTask(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Task{}, id)
	return res.RowsAffected > 0, res.Error
}

// Applications

func (s *GormStorage) GetApplication(ctx context.Context, id uint) (*models.Application, error) {
	return getByID[models.Application](ctx, s.db, id)
}

func (s *GormStorage) ListApplicationsByJob(ctx context.Context, jobID uint) ([]models.Application, error) {
	var apps []models.Application
	err := s.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC, id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *GormStorage) ListApplicationsByApplicant(ctx context.Context, applicantID uint) ([]models.Application, error) {
	var apps []models.Application
	err := s.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC, id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *GormStorage) CreateApplication(ctx context.Context, a *models.Application) error {
	if a.Status == "" {
		a.Status = models.ApplicationPending
	}
	return translate(s.db.WithContext(ctx).Create(a).Error)
}

func (s *GormStorage) UpdateApplication(ctx context.Context, id uint, upd ApplicationUpdate) (*models.Application, error) {
	a, err := s.GetApplication(ctx, id)
	if err != nil || a == nil {
		return nil, err
	}
	upd.Apply(a)
	if err := translate(s.db.WithContext(ctx).Save(a).Error); err != nil {
		return nil, err
	}
	return a, nil
}

// Orders

func (s *GormStorage) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return getByID[models.Order](ctx, s.db, id)
}

func (s *GormStorage) ListOrdersByTask(ctx context.Context, taskID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *GormStorage) ListOrdersByBuyer(ctx context.Context, buyerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *GormStorage) ListOrdersBySeller(ctx context.Context, sellerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = orders.task_id").
		Where("tasks.freelancer_id = ?", sellerID).
		Order("orders.created_at DESC, orders.id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *GormStorage) CreateOrder(ctx context.Context, o *models.Order) error {
	days := DefaultDeliveryDays
	task, err := s.GetTask(ctx, o.TaskID)
	if err != nil {
		return err
	}
	if task != nil && task.DeliveryTime > 0 {
		days = task.DeliveryTime
	}

	now := time.Now()
	o.CreatedAt = now
	o.DeliveryDate = now.AddDate(0, 0, days)
	if o.Status == "" {
		o.Status = models.OrderPending
	}
	return translate(s.db.WithContext(ctx).Create(o).Error)
}

func (s *GormStorage) UpdateOrder(ctx context.Context, id uint, upd OrderUpdate) (*models.Order, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil || o == nil {
		return nil, err
	}
	upd.Apply(o)
	if err := translate(s.db.WithContext(ctx).Save(o).Error); err != nil {
		return nil, err
	}
	return o, nil
}

// Messages

func (s *GormStorage) ListMessagesByOrder(ctx context.Context, orderID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *GormStorage) ListMessagesBetweenUsers(ctx context.Context, user1ID, user2ID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			user1ID, user2ID, user2ID, user1ID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *GormStorage) CreateMessage(ctx context.Context, m *models.Message) error {
	return translate(s.db.WithContext(ctx).Create(m).Error)
}
