package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/academics/departments/controller"
)

func DepartmentAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewDepartmentController(db, v)
	g := admin.Group("/departments")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
	g.Post("/:id/restore", ctl.Restore)
}

func DepartmentUserRoutes(user fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewDepartmentController(db, v)
	g := user.Group("/departments")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
}
