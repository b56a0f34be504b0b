package details

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	authController "schoolku_backend/internals/features/users/auth/controller"
	authRoute "schoolku_backend/internals/features/users/auth/route"
	helperAuth "schoolku_backend/internals/helpers/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB, v *validator.Validate, issuer helperAuth.TokenIssuer, authMW fiber.Handler) *authController.AuthController {
	ctl := authController.NewAuthController(db, v, issuer)
	ctl.SecureCookies = configs.GetEnvBool("COOKIE_SECURE", true)
	authRoute.AuthRoutes(app, ctl, authMW)
	return ctl
}
