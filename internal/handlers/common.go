package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kajbd/kajbd-backend/internal/storage"
)

type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func validationFail(c *fiber.Ctx, errs FieldErrors) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation error",
		"errors":  errs,
	})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
	})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": msg})
}

func forbidden(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": msg})
}

func conflict(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
}

// storageError converts a failed Storage call into the HTTP taxonomy. Messages
// are surfaced directly; this is a non-critical CRUD service.
func storageError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, storage.ErrDuplicate):
		return conflict(c, "Record already exists")
	case errors.Is(err, storage.ErrForeignKey):
		return conflict(c, "Referenced record does not exist")
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
}

func paramID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, false
	}
	return uint(id), true
}
