package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/kajbd/kajbd-backend/internal/middleware"
	"github.com/kajbd/kajbd-backend/internal/models"
	"github.com/kajbd/kajbd-backend/internal/storage"
)

type OrderHandler struct {
	Store storage.Storage
}

func NewOrderHandler(store storage.Storage) *OrderHandler {
	return &OrderHandler{Store: store}
}

type CreateOrderReq struct {
	Requirements string `json:"requirements"`
}

// Create places an order for a task. The seller is the task's freelancer;
// ordering your own task is rejected regardless of payload.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	taskID, ok := paramID(c)
	if !ok {
		return notFound(c, "Task not found")
	}
	uid := middleware.UserID(c)

	task, err := h.Store.GetTask(c.Context(), taskID)
	if err != nil {
		return storageError(c, err)
	}
	if task == nil {
		return notFound(c, "Task not found")
	}
	if task.FreelancerID == uid {
		return conflict(c, "Cannot order your own task")
	}

	var req CreateOrderReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	order := models.Order{
		TaskID:       taskID,
		BuyerID:      uid,
		Status:       models.OrderPending,
		Requirements: req.Requirements,
	}
	if err := h.Store.CreateOrder(c.Context(), &order); err != nil {
		return storageError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// Mine lists the session user's purchases with task and seller summaries.
func (h *OrderHandler) Mine(c *fiber.Ctx) error {
	orders, err := h.Store.ListOrdersByBuyer(c.Context(), middleware.UserID(c))
	if err != nil {
		return storageError(c, err)
	}

	out := make([]orderResponse, len(orders))
	g, ctx := errgroup.WithContext(c.Context())
	for i, order := range orders {
		i, order := i, order
		g.Go(func() error {
			task, err := h.Store.GetTask(ctx, order.TaskID)
			if err != nil {
				return err
			}
			var freelancer *models.User
			if task != nil {
				if freelancer, err = h.Store.GetUser(ctx, task.FreelancerID); err != nil {
					return err
				}
			}
			out[i] = orderResponse{
				Order:      order,
				Task:       taskSummary(task),
				Freelancer: participantSummary(freelancer),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return storageError(c, err)
	}
	return c.JSON(out)
}

// Sales lists the orders received against the session user's tasks, with task
// and buyer summaries.
func (h *OrderHandler) Sales(c *fiber.Ctx) error {
	orders, err := h.Store.ListOrdersBySeller(c.Context(), middleware.UserID(c))
	if err != nil {
		return storageError(c, err)
	}

	out := make([]orderResponse, len(orders))
	g, ctx := errgroup.WithContext(c.Context())
	for i, order := range orders {
		i, order := i, order
		g.Go(func() error {
			task, err := h.Store.GetTask(ctx, order.TaskID)
			if err != nil {
				return err
			}
			buyer, err := h.Store.GetUser(ctx, order.BuyerID)
			if err != nil {
				return err
			}
			out[i] = orderResponse{
				Order: order,
				Task:  taskSummary(task),
				Buyer: participantSummary(buyer),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return storageError(c, err)
	}
	return c.JSON(out)
}

type UpdateOrderStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus lets the seller move an order through its lifecycle.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return notFound(c, "Order not found")
	}

	var req UpdateOrderStatusReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	status := models.OrderStatus(req.Status)
	if !status.Valid() {
		errs := FieldErrors{}
		errs.Add("status", "status must be pending, in_progress, completed or cancelled")
		return validationFail(c, errs)
	}

	order, err := h.Store.GetOrder(c.Context(), id)
	if err != nil {
		return storageError(c, err)
	}
	if order == nil {
		return notFound(c, "Order not found")
	}

	task, err := h.Store.GetTask(c.Context(), order.TaskID)
	if err != nil {
		return storageError(c, err)
	}
	if task == nil || task.FreelancerID != middleware.UserID(c) {
		return forbidden(c, "Access denied")
	}

	updated, err := h.Store.UpdateOrder(c.Context(), id, storage.OrderUpdate{Status: &status})
	if err != nil {
		return storageError(c, err)
	}
	if updated == nil {
		return notFound(c, "Order not found")
	}
	return c.JSON(updated)
}
