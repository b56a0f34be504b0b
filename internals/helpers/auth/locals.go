package helper

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals set by the auth middleware.
const (
	LocUserID   = "user_id"
	LocSchoolID = "school_id"
	LocRole     = "role"
	LocRoles    = "roles"
	LocClaims   = "claims"
)

func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	s, _ := c.Locals(LocUserID).(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - invalid user id")
	}
	return id, nil
}

// GetSchoolID returns the tenant of the current user; requests without one
// are rejected.
func GetSchoolID(c *fiber.Ctx) (uuid.UUID, error) {
	s, _ := c.Locals(LocSchoolID).(string)
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "No school is linked to this account")
	}
	return id, nil
}

func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocRole).(string)
	return s
}

func GetRoles(c *fiber.Ctx) []string {
	r, _ := c.Locals(LocRoles).([]string)
	return r
}

func GetClaims(c *fiber.Ctx) *Claims {
	cl, _ := c.Locals(LocClaims).(*Claims)
	return cl
}
