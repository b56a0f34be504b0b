package seeds

import (
	"gorm.io/gorm"

	schools "schoolku_backend/internals/seeds/schools"
)

func RunAllSeeds(db *gorm.DB) {
	//* Demo school, admin account, departments and rooms
	schools.SeedSchoolsFromJSON(db, "internals/seeds/schools/data_schools.json")
}
