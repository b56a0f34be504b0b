package middlewares

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/utils"
)

const LocRequestID = "request_id"

// RequestID keeps an incoming X-Request-ID or generates one, and bounds the
// handler's UserContext by timeout (0 = no bound).
func RequestID(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = utils.UUID()
		}
		c.Set(fiber.HeaderXRequestID, id)
		c.Locals(LocRequestID, id)

		if timeout > 0 {
			ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
			defer cancel()
			c.SetUserContext(ctx)
		}
		return c.Next()
	}
}
