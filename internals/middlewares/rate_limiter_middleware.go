package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "schoolku_backend/internals/helpers"
)

// newLimiter: limiter per IP dengan pesan 429 sendiri
func newLimiter(max int, exp time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: exp,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// Global limiter: untuk semua endpoint biasa
func GlobalRateLimiter() fiber.Handler {
	return newLimiter(100, time.Minute, "Too many requests, please try again later.")
}

// Rate limiter untuk login route (lebih ketat)
func LoginRateLimiter() fiber.Handler {
	return newLimiter(5, time.Minute, "Too many login attempts, please wait a moment.")
}

// Rate limiter untuk register route
func RegisterRateLimiter() fiber.Handler {
	return newLimiter(3, 5*time.Minute, "Too many registrations, please wait a few minutes.")
}
