package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kajbd/kajbd-backend/internal/models"
)

// MemStorage is the transient backend: per-entity maps plus monotonically
// increasing counters behind one RWMutex. State is lost on restart; used for
// development and tests. Creates validate foreign keys so the observable
// behavior matches the relational backend's constraints, with one deliberate
// exception: Order.TaskID may dangle, in which case the delivery date falls
// back to DefaultDeliveryDays.
type MemStorage struct {
	mu sync.RWMutex

	users        map[uint]models.User
	jobs         map[uint]models.Job
	tasks        map[uint]models.Task
	applications map[uint]models.Application
	orders       map[uint]models.Order
	messages     map[uint]models.Message

	nextUserID        uint
	nextJobID         uint
	nextTaskID        uint
	nextApplicationID uint
	nextOrderID       uint
	nextMessageID     uint
}

var _ Storage = (*MemStorage)(nil)

func NewMemStorage() *MemStorage {
	return &MemStorage{
		users:        make(map[uint]models.User),
		jobs:         make(map[uint]models.Job),
		tasks:        make(map[uint]models.Task),
		applications: make(map[uint]models.Application),
		orders:       make(map[uint]models.Order),
		messages:     make(map[uint]models.Message),

		nextUserID:        1,
		nextJobID:         1,
		nextTaskID:        1,
		nextApplicationID: 1,
		nextOrderID:       1,
		nextMessageID:     1,
	}
}

// newestFirst matches the relational ORDER BY created_at DESC, id DESC.
func newestFirst(created func(i int) time.Time, id func(i int) uint) func(i, j int) bool {
	return func(i, j int) bool {
		ci, cj := created(i), created(j)
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(i) > id(j)
	}
}

// Users

func (s *MemStorage) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *MemStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemStorage) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return ErrDuplicate
		}
	}
	u.ID = s.nextUserID
	s.nextUserID++
	u.CreatedAt = time.Now()
	s.users[u.ID] = *u
	return nil
}

func (s *MemStorage) UpdateUser(_ context.Context, id uint, upd UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	upd.Apply(&u)
	s.users[id] = u
	return &u, nil
}

// Jobs

func (s *MemStorage) GetJob(_ context.Context, id uint) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	return &j, nil
}

func (s *MemStorage) ListJobs(_ context.Context, f JobFilters) ([]models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Job
	for _, j := range s.jobs {
		if !j.IsActive {
			continue
		}
		if f.City != "" && !strings.EqualFold(j.City, f.City) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(j.Category, f.Category) {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(j.Title), needle) &&
				!strings.Contains(strings.ToLower(j.Description), needle) &&
				!strings.Contains(strings.ToLower(j.Company), needle) {
				continue
			}
		}
		out = append(out, j)
	}
	sort.Slice(out, newestFirst(
		func(i int) time.Time { return out[i].CreatedAt },
		func(i int) uint { return out[i].ID },
	))
	return out, nil
}

func (s *MemStorage) ListJobsByEmployer(_ context.Context, employerID uint) ([]models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Job
	for _, j := range s.jobs {
		if j.EmployerID == employerID {
			out = append(out, j)
		}
	}
	sort.Slice(out, newestFirst(
		func(i int) time.Time { return out[i].CreatedAt },
		func(i int) uint { return out[i].ID },
	))
	return out, nil
}

func (s *MemStorage) CreateJob(_ context.Context, j *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[j.EmployerID]; !ok {
		return ErrForeignKey
	}
	j.ID = s.nextJobID
	s.nextJobID++
	j.CreatedAt = time.Now()
	s.jobs[j.ID] = *j
	return nil
}

func (s *MemStorage) UpdateJob(_ context.Context, id uint, upd JobUpdate) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	upd.Apply(&j)
	s.jobs[id] = j
	return &j, nil
}

func (s *MemStorage) DeleteJob(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return false, nil
	}
	delete(s.jobs, id)
	return true, nil
}

// Tasks

func (s *MemStorage) GetTask(_ context.Context, id uint) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *MemStorage) ListTasks(_ context.Context, f TaskFilters) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Task
	for _, t := range s.tasks {
		if !t.IsActive {
			continue
		}
		if f.Category != "" && !strings.EqualFold(t.Category, f.Category) {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(t.Title), needle) &&
				!strings.Contains(strings.ToLower(t.Description), needle) {
				continue
			}
		}
		out = append(out, t)
	}
	sort.Slice(out, newestFirst(
		func(i int) time.Time { return out[i].CreatedAt },
		func(i int) uint { return out[i].ID },
	))
	return out, nil
}

func (s *MemStorage) ListTasksByFreelancer(_ context.Context, freelancerID uint) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Task
	for _, t := range s.tasks {
		if t.FreelancerID == freelancerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, newestFirst(
		func(i int) time.Time { return out[i].CreatedAt },
		func(i int) uint { return out[i].ID },
	))
	return out, nil
}

func (s *MemStorage) CreateTask(_ context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[t.FreelancerID]; !ok {
		return ErrForeignKey
	}
	t.ID = s.nextTaskID
	s.nextTaskID++
	t.CreatedAt = time.Now()
	s.tasks[t.ID] = *t
	return nil
}

func (s *MemStorage) UpdateTask(_ context.Context, id uint, upd TaskUpdate) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	upd.Apply(&t)
	s.tasks[id] = t
	return &t, nil
}

func (s *MemStorage) DeleteTask(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	delete(s.tasks, id)
	return true, nil
}

// Applications

func (s *MemStorage) GetApplication(_ context.Context, id uint) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.applications[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *MemStorage) ListApplicationsByJob(_ context.Context, jobID uint) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Application
	for _, a := range s.applications {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	sort.Slice(out, newestFirst(
		func(i int) time.Time { return out[i].CreatedAt },
		func(i int) uint { return out[i].ID },
	))
	return out, nil
}

func (s *MemStorage) ListApplicationsByApplicant(_ context.Context, applicantID uint) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Application
	for _, a := range s.applications {
		if a.ApplicantID == applicantID {
			out = append(out, a)
		}
	}
	sort.Slice(out, newestFirst(
		func(i int) time.Time { return out[i].CreatedAt },
		func(i int) uint { return out[i].ID },
	))
	return out, nil
}

func (s *MemStorage) CreateApplication(_ context.Context, a *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[a.JobID]; !ok {
		return ErrForeignKey
	}
	if _, ok := s.users[a.ApplicantID]; !ok {
		return ErrForeignKey
	}
	a.ID = s.nextApplicationID
	s.nextApplicationID++
	a.CreatedAt = time.Now()
	if a.Status == "" {
		a.Status = models.ApplicationPending
	}
	s.applications[a.ID] = *a
	return nil
}

func (s *MemStorage) UpdateApplication(_ context.Context, id uint, upd ApplicationUpdate) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.applications[id]
	if !ok {
		return nil, nil
	}
	upd.Apply(&a)
	s.applications[id] = a
	return &a, nil
}

// Orders

func (s *MemStorage) GetOrder(_ context.Context, id uint) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (s *MemStorage) ListOrdersByTask(_ context.Context, taskID uint) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Order
	for _, o := range s.orders {
		if o.TaskID == taskID {
			out = append(out, o)
		}
	}
	sort.Slice(out, newestFirst(
		func(i int) time.Time { return out[i].CreatedAt },
		func(i int) uint { return out[i].ID },
	))
	return out, nil
}

func (s *MemStorage) ListOrdersByBuyer(_ context.Context, buyerID uint) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Order
	for _, o := range s.orders {
		if o.BuyerID == buyerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, newestFirst(
		func(i int) time.Time { return out[i].CreatedAt },
		func(i int) uint { return out[i].ID },
	))
	return out, nil
}

func (s *MemStorage) ListOrdersBySeller(_ context.Context, sellerID uint) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Orders have no seller column; resolve the seller's task set first.
	sellerTasks := make(map[uint]bool)
	for _, t := range s.tasks {
		if t.FreelancerID == sellerID {
			sellerTasks[t.ID] = true
		}
	}

	var out []models.Order
	for _, o := range s.orders {
		if sellerTasks[o.TaskID] {
			out = append(out, o)
		}
	}
	sort.Slice(out, newestFirst(
		func(i int) time.Time { return out[i].CreatedAt },
		func(i int) uint { return out[i].ID },
	))
	return out, nil
}

func (s *MemStorage) CreateOrder(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[o.BuyerID]; !ok {
		return ErrForeignKey
	}

	days := DefaultDeliveryDays
	if t, ok := s.tasks[o.TaskID]; ok && t.DeliveryTime > 0 {
		days = t.DeliveryTime
	}

	o.ID = s.nextOrderID
	s.nextOrderID++
	o.CreatedAt = time.Now()
	o.DeliveryDate = o.CreatedAt.AddDate(0, 0, days)
	if o.Status == "" {
		o.Status = models.OrderPending
	}
	s.orders[o.ID] = *o
	return nil
}

func (s *MemStorage) UpdateOrder(_ context.Context, id uint, upd OrderUpdate) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	upd.Apply(&o)
	s.orders[id] = o
	return &o, nil
}

// Messages

func (s *MemStorage) ListMessagesByOrder(_ context.Context, orderID uint) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Message
	for _, m := range s.messages {
		if m.OrderID == orderID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemStorage) ListMessagesBetweenUsers(_ context.Context, user1ID, user2ID uint) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Message
	for _, m := range s.messages {
		if (m.SenderID == user1ID && m.ReceiverID == user2ID) ||
			(m.SenderID == user2ID && m.ReceiverID == user1ID) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemStorage) CreateMessage(_ context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[m.OrderID]; !ok {
		return ErrForeignKey
	}
	if _, ok := s.users[m.SenderID]; !ok {
		return ErrForeignKey
	}
	if _, ok := s.users[m.ReceiverID]; !ok {
		return ErrForeignKey
	}
	m.ID = s.nextMessageID
	s.nextMessageID++
	m.CreatedAt = time.Now()
	s.messages[m.ID] = *m
	return nil
}
