package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/academics/courses/controller"
)

func CourseAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewCourseController(db, v)
	g := admin.Group("/courses")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
	g.Post("/:id/restore", ctl.Restore)
}

func CourseUserRoutes(user fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewCourseController(db, v)
	g := user.Group("/courses")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
}
