package auth

import (
	"github.com/gofiber/fiber/v2"

	helperAuth "schoolku_backend/internals/helpers/auth"
)

// OnlyRoles lets the request through when the active role is one of roles.
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	if customMessage == "" {
		customMessage = "Forbidden: you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		role := helperAuth.GetRole(c)
		if role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, customMessage)
	}
}
