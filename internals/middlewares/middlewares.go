package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the stack shared by every route.
func SetupMiddlewares(app *fiber.App, cfg configs.Config) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestID(15 * time.Second))
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware(cfg.CORSOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(etag.New())
}
