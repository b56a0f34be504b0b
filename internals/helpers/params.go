package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ParseUUIDParam reads a path param as a UUID.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Params(name)))
}

// QueryUUIDPtr returns nil when the query param is absent.
func QueryUUIDPtr(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// QueryBoolPtr returns nil for absent or unparsable values.
func QueryBoolPtr(c *fiber.Ctx, name string) *bool {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}

// LikePattern lowercases q and wraps it for LIKE.
func LikePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}
