package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/people/controller"
)

type crud interface {
	List(*fiber.Ctx) error
	GetByID(*fiber.Ctx) error
	Create(*fiber.Ctx) error
	Patch(*fiber.Ctx) error
	Delete(*fiber.Ctx) error
	Restore(*fiber.Ctx) error
	ValidateStep(*fiber.Ctx) error
}

func mountAdmin(r fiber.Router, path string, ctl crud) {
	g := r.Group(path)
	g.Get("/", ctl.List)
	g.Post("/validate", ctl.ValidateStep)
	g.Get("/:id", ctl.GetByID)
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
	g.Post("/:id/restore", ctl.Restore)
}

func mountUser(r fiber.Router, path string, ctl crud) {
	g := r.Group(path)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
}

// PeopleAdminRoutes mounts students, teachers and parents under /api/a.
func PeopleAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate, photos controller.Photos) {
	mountAdmin(admin, "/students", controller.NewStudentController(db, v, photos))
	mountAdmin(admin, "/teachers", controller.NewTeacherController(db, v, photos))
	mountAdmin(admin, "/parents", controller.NewParentController(db, v, photos))
}

func PeopleUserRoutes(user fiber.Router, db *gorm.DB, v *validator.Validate, photos controller.Photos) {
	mountUser(user, "/students", controller.NewStudentController(db, v, photos))
	mountUser(user, "/teachers", controller.NewTeacherController(db, v, photos))
	mountUser(user, "/parents", controller.NewParentController(db, v, photos))
}
