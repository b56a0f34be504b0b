package details

import (
	"github.com/gofiber/fiber/v2"

	authController "schoolku_backend/internals/features/users/auth/controller"
	authRoute "schoolku_backend/internals/features/users/auth/route"
)

func UserRoutes(user fiber.Router, authCtl *authController.AuthController, school SchoolDeps) {
	authRoute.MeRoutes(user, authCtl)
	SchoolUserRoutes(user, school)
}
