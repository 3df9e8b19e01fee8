package auth

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, secret string) {
	r.Get("/jwt/verify", JWTMiddleware(secret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"subject": c.Locals(LocalSubject)})
	})
}
