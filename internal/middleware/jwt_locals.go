package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kajbd/kajbd-backend/internal/utils"
)

// AttachJWTLocals copies the parsed claims into plain locals so handlers never
// touch the token type directly.
func AttachJWTLocals() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*utils.Claims)
		if !ok || claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
		}
		if claims.UserID == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
		}

		c.Locals("userId", claims.UserID)
		c.Locals("role", strings.ToLower(strings.TrimSpace(claims.Role)))
		return c.Next()
	}
}

// UserID returns the authenticated user id, zero when the request is anonymous.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userId").(uint)
	return id
}
