package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/kajbd/kajbd-backend/internal/middleware"
	"github.com/kajbd/kajbd-backend/internal/models"
	"github.com/kajbd/kajbd-backend/internal/storage"
)

type TaskHandler struct {
	Store storage.Storage
}

func NewTaskHandler(store storage.Storage) *TaskHandler {
	return &TaskHandler{Store: store}
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	tasks, err := h.Store.ListTasks(c.Context(), storage.TaskFilters{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		return storageError(c, err)
	}

	out := make([]taskResponse, len(tasks))
	g, ctx := errgroup.WithContext(c.Context())
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			freelancer, err := h.Store.GetUser(ctx, task.FreelancerID)
			if err != nil {
				return err
			}
			out[i] = taskResponse{Task: task, Freelancer: freelancerSummary(freelancer)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return storageError(c, err)
	}

	return c.JSON(out)
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return notFound(c, "Task not found")
	}

	task, err := h.Store.GetTask(c.Context(), id)
	if err != nil {
		return storageError(c, err)
	}
	if task == nil {
		return notFound(c, "Task not found")
	}

	freelancer, err := h.Store.GetUser(c.Context(), task.FreelancerID)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(taskResponse{Task: *task, Freelancer: freelancerSummary(freelancer)})
}

type CreateTaskReq struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Price        int      `json:"price"`
	DeliveryTime int      `json:"deliveryTime"`
	Images       []string `json:"images"`
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var req CreateTaskReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	errs := FieldErrors{}
	if strings.TrimSpace(req.Title) == "" {
		errs.Add("title", "title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		errs.Add("description", "description is required")
	}
	if strings.TrimSpace(req.Category) == "" {
		errs.Add("category", "category is required")
	}
	if req.Price <= 0 {
		errs.Add("price", "price must be a positive amount")
	}
	if req.DeliveryTime <= 0 {
		errs.Add("deliveryTime", "deliveryTime must be a positive number of days")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}
	task := models.Task{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		DeliveryTime: req.DeliveryTime,
		Images:       images,
		FreelancerID: middleware.UserID(c),
		IsActive:     true,
	}
	if err := h.Store.CreateTask(c.Context(), &task); err != nil {
		return storageError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

type UpdateTaskReq struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Category     *string   `json:"category"`
	Price        *int      `json:"price"`
	DeliveryTime *int      `json:"deliveryTime"`
	Images       *[]string `json:"images"`
	IsActive     *bool     `json:"isActive"`
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return notFound(c, "Task not found")
	}

	task, err := h.Store.GetTask(c.Context(), id)
	if err != nil {
		return storageError(c, err)
	}
	if task == nil {
		return notFound(c, "Task not found")
	}
	if task.FreelancerID != middleware.UserID(c) {
		return forbidden(c, "Access denied")
	}

	var req UpdateTaskReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	errs := FieldErrors{}
	if req.Price != nil && *req.Price <= 0 {
		errs.Add("price", "price must be a positive amount")
	}
	if req.DeliveryTime != nil && *req.DeliveryTime <= 0 {
		errs.Add("deliveryTime", "deliveryTime must be a positive number of days")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	updated, err := h.Store.UpdateTask(c.Context(), id, storage.TaskUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		DeliveryTime: req.DeliveryTime,
		Images:       req.Images,
		IsActive:     req.IsActive,
	})
	if err != nil {
		return storageError(c, err)
	}
	if updated == nil {
		return notFound(c, "Task not found")
	}
	return c.JSON(updated)
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return notFound(c, "Task not found")
	}

	task, err := h.Store.GetTask(c.Context(), id)
	if err != nil {
		return storageError(c, err)
	}
	if task == nil {
		return notFound(c, "Task not found")
	}
	if task.FreelancerID != middleware.UserID(c) {
		return forbidden(c, "Access denied")
	}

	deleted, err := h.Store.DeleteTask(c.Context(), id)
	if err != nil {
		return storageError(c, err)
	}
	if !deleted {
		return notFound(c, "Task not found")
	}
	return c.JSON(fiber.Map{"message": "Task deleted"})
}

func (h *TaskHandler) Mine(c *fiber.Ctx) error {
	tasks, err := h.Store.ListTasksByFreelancer(c.Context(), middleware.UserID(c))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(tasks)
}
