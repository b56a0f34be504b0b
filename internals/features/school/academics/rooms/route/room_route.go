package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/academics/rooms/controller"
)

func RoomAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewRoomController(db, v)
	g := admin.Group("/rooms")
	g.Get("/", ctl.List)
	g.Post("/validate", ctl.ValidateStep)
	g.Get("/:id", ctl.GetByID)
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
	g.Post("/:id/restore", ctl.Restore)
}

func RoomUserRoutes(user fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewRoomController(db, v)
	g := user.Group("/rooms")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
}
