package details

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseRoute "schoolku_backend/internals/features/school/academics/courses/route"
	departmentRoute "schoolku_backend/internals/features/school/academics/departments/route"
	roomRoute "schoolku_backend/internals/features/school/academics/rooms/route"
	peopleController "schoolku_backend/internals/features/school/people/controller"
	peopleRoute "schoolku_backend/internals/features/school/people/route"
	"schoolku_backend/internals/helpers/blob"
)

type SchoolDeps struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Storage  blob.Service
	Prefix   string
	MaxBytes int64
}

func (d SchoolDeps) photos() peopleController.Photos {
	opt := blob.DefaultWebPOptions()
	if d.MaxBytes > 0 {
		opt.MaxBytes = d.MaxBytes
	}
	return peopleController.Photos{Storage: d.Storage, Prefix: d.Prefix, Options: opt}
}

// SchoolAdminRoutes mounts the full CRUD surface on /api/a.
func SchoolAdminRoutes(admin fiber.Router, d SchoolDeps) {
	departmentRoute.DepartmentAdminRoutes(admin, d.DB, d.Validate)
	courseRoute.CourseAdminRoutes(admin, d.DB, d.Validate)
	roomRoute.RoomAdminRoutes(admin, d.DB, d.Validate)
	peopleRoute.PeopleAdminRoutes(admin, d.DB, d.Validate, d.photos())
}

// SchoolUserRoutes mounts the read-only listings on /api/u.
func SchoolUserRoutes(user fiber.Router, d SchoolDeps) {
	departmentRoute.DepartmentUserRoutes(user, d.DB, d.Validate)
	courseRoute.CourseUserRoutes(user, d.DB, d.Validate)
	roomRoute.RoomUserRoutes(user, d.DB, d.Validate)
	peopleRoute.PeopleUserRoutes(user, d.DB, d.Validate, d.photos())
}
