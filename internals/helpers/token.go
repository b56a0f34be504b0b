package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocRawToken holds the verified access token for handlers such as logout.
const LocRawToken = "raw_token"

// BearerOrCookie reads "Authorization: Bearer <token>", falling back to the
// access_token cookie when allowCookie is set.
func BearerOrCookie(c *fiber.Ctx, allowCookie bool) string {
	const p = "Bearer "
	if auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); len(auth) > len(p) && strings.EqualFold(auth[:len(p)], p) {
		return strings.TrimSpace(auth[len(p):])
	}
	if allowCookie {
		return strings.TrimSpace(c.Cookies("access_token"))
	}
	return ""
}

// GetRawAccessToken returns the token stored by the auth middleware.
func GetRawAccessToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok {
		return v
	}
	return BearerOrCookie(c, true)
}
