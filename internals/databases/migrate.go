package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	courseModel "schoolku_backend/internals/features/school/academics/courses/model"
	deptModel "schoolku_backend/internals/features/school/academics/departments/model"
	roomModel "schoolku_backend/internals/features/school/academics/rooms/model"
	peopleModel "schoolku_backend/internals/features/school/people/model"
	authModel "schoolku_backend/internals/features/users/auth/model"
)

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&authModel.SchoolModel{},
		&authModel.UserModel{},
		&authModel.RefreshToken{},
		&authModel.TokenBlacklist{},
		&deptModel.DepartmentModel{},
		&courseModel.CourseModel{},
		&roomModel.RoomModel{},
		&peopleModel.StudentModel{},
		&peopleModel.TeacherModel{},
		&peopleModel.ParentModel{},
		&peopleModel.StudentParentModel{},
	}
}

// Migrate creates or updates the tables. gen_random_uuid needs pgcrypto on
// PostgreSQL < 13.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		log.Printf("[WARN] pgcrypto: %v", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Printf("[INFO] migrated %d tables", len(Models()))
	return nil
}
