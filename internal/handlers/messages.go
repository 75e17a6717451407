package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kajbd/kajbd-backend/internal/middleware"
	"github.com/kajbd/kajbd-backend/internal/models"
	"github.com/kajbd/kajbd-backend/internal/realtime"
	"github.com/kajbd/kajbd-backend/internal/storage"
)

type MessageHandler struct {
	Store  storage.Storage
	Broker *realtime.Broker
}

func NewMessageHandler(store storage.Storage, broker *realtime.Broker) *MessageHandler {
	return &MessageHandler{Store: store, Broker: broker}
}

// participants resolves an order and the id of its seller (zero when the task
// no longer exists). Only the buyer and the seller may touch the thread.
func (h *MessageHandler) participants(c *fiber.Ctx, orderID uint) (*models.Order, uint, error) {
	order, err := h.Store.GetOrder(c.Context(), orderID)
	if err != nil || order == nil {
		return order, 0, err
	}
	task, err := h.Store.GetTask(c.Context(), order.TaskID)
	if err != nil {
		return nil, 0, err
	}
	var sellerID uint
	if task != nil {
		sellerID = task.FreelancerID
	}
	return order, sellerID, nil
}

func (h *MessageHandler) List(c *fiber.Ctx) error {
	orderID, ok := paramID(c)
	if !ok {
		return notFound(c, "Order not found")
	}
	uid := middleware.UserID(c)

	order, sellerID, err := h.participants(c, orderID)
	if err != nil {
		return storageError(c, err)
	}
	if order == nil {
		return notFound(c, "Order not found")
	}
	if order.BuyerID != uid && (sellerID == 0 || sellerID != uid) {
		return forbidden(c, "Access denied")
	}

	msgs, err := h.Store.ListMessagesByOrder(c.Context(), orderID)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(msgs)
}

type CreateMessageReq struct {
	Content string `json:"content"`
}

func (h *MessageHandler) Create(c *fiber.Ctx) error {
	orderID, ok := paramID(c)
	if !ok {
		return notFound(c, "Order not found")
	}
	uid := middleware.UserID(c)

	order, sellerID, err := h.participants(c, orderID)
	if err != nil {
		return storageError(c, err)
	}
	if order == nil {
		return notFound(c, "Order not found")
	}
	if order.BuyerID != uid && (sellerID == 0 || sellerID != uid) {
		return forbidden(c, "Access denied")
	}

	var req CreateMessageReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if strings.TrimSpace(req.Content) == "" {
		errs := FieldErrors{}
		errs.Add("content", "content is required")
		return validationFail(c, errs)
	}

	// The receiver is always the other party to the order. With the task gone
	// the seller side is unresolvable, so the buyer has nobody to write to.
	receiverID := sellerID
	if uid != order.BuyerID {
		receiverID = order.BuyerID
	}
	if receiverID == 0 {
		return conflict(c, "Other party is no longer available")
	}

	msg := models.Message{
		SenderID:   uid,
		ReceiverID: receiverID,
		OrderID:    orderID,
		Content:    req.Content,
	}
	if err := h.Store.CreateMessage(c.Context(), &msg); err != nil {
		return storageError(c, err)
	}

	if h.Broker != nil {
		if payload, err := json.Marshal(msg); err == nil {
			h.Broker.Publish(c.Context(), realtime.Event{
				Kind:       "order_message",
				OrderID:    orderID,
				Recipients: []uint{msg.SenderID, msg.ReceiverID},
				Payload:    payload,
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}
