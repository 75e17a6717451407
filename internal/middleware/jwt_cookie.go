package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kajbd/kajbd-backend/internal/utils"
)

// CookieName is where the signed session token lives. HTTP-only, issued on
// register/login, cleared on logout.
const CookieName = "kb_token"

func JWTFromCookie(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(CookieName)
		if tokenStr == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
		}

		claims, err := utils.ParseJWT(secret, tokenStr)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}
