package routes

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/constants"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/helpers/blob"
	authMiddleware "schoolku_backend/internals/middlewares/auth"
	routeDetails "schoolku_backend/internals/route/details"
)

var startTime = time.Now()

// Deps is what the route tree needs from main.
type Deps struct {
	DB       *gorm.DB
	Config   configs.Config
	Storage  blob.Service
	Validate *validator.Validate
}

func SetupRoutes(app *fiber.App, deps Deps) {
	startTime = time.Now()
	if deps.Validate == nil {
		deps.Validate = helper.NewValidator()
	}

	issuer := helperAuth.TokenIssuer{
		Secret:        deps.Config.JWTSecret,
		RefreshSecret: deps.Config.JWTRefreshSecret,
		AccessTTL:     deps.Config.AccessTokenTTL,
		RefreshTTL:    deps.Config.RefreshTokenTTL,
	}
	blacklist := helperAuth.Blacklist{DB: deps.DB, Secret: deps.Config.JWTSecret}
	authMW := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Issuer:              issuer,
		BlacklistChecker:    blacklist.IsBlacklisted,
		AllowCookieFallback: true,
	})

	BaseRoutes(app, deps.DB)

	log.Println("[INFO] Setting up AuthRoutes...")
	authCtl := routeDetails.AuthRoutes(app, deps.DB, deps.Validate, issuer, authMW)

	school := routeDetails.SchoolDeps{
		DB:       deps.DB,
		Validate: deps.Validate,
		Storage:  deps.Storage,
		Prefix:   deps.Config.UploadPrefix,
		MaxBytes: int64(deps.Config.MaxUploadMB) << 20,
	}

	log.Println("[INFO] Setting up USER group...")
	user := app.Group("/api/u", authMW)
	routeDetails.UserRoutes(user, authCtl, school)

	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMW,
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("school data"), constants.SchoolManagers...),
	)
	routeDetails.SchoolAdminRoutes(admin, school)
}
