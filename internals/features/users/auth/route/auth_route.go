package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/features/users/auth/controller"
	"schoolku_backend/internals/middlewares"
)

// AuthRoutes mounts the public /api/auth endpoints. Logout needs a token, so
// it takes the auth middleware.
func AuthRoutes(app fiber.Router, ctl *controller.AuthController, authMW fiber.Handler) {
	g := app.Group("/api/auth")
	g.Post("/register", middlewares.RegisterRateLimiter(), ctl.Register)
	g.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
	g.Post("/refresh", ctl.Refresh)
	g.Post("/logout", authMW, ctl.Logout)
}

// MeRoutes mounts the profile endpoints on an authenticated /api/u group.
func MeRoutes(user fiber.Router, ctl *controller.AuthController) {
	user.Get("/me", ctl.Me)
	user.Patch("/me/role", ctl.SwitchRole)
}
