package schools

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"schoolku_backend/internals/constants"
	deptModel "schoolku_backend/internals/features/school/academics/departments/model"
	roomModel "schoolku_backend/internals/features/school/academics/rooms/model"
	authModel "schoolku_backend/internals/features/users/auth/model"
	"schoolku_backend/internals/features/users/auth/service"
	helper "schoolku_backend/internals/helpers"
)

type AdminSeed struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type DepartmentSeed struct {
	Name        string `json:"department_name"`
	Description string `json:"department_description"`
}

type RoomSeed struct {
	Name     string   `json:"room_name"`
	Building string   `json:"room_building"`
	Capacity int      `json:"room_capacity"`
	Features []string `json:"room_features"`
}

type SchoolSeed struct {
	Name        string           `json:"school_name"`
	Admin       AdminSeed        `json:"admin"`
	Departments []DepartmentSeed `json:"departments"`
	Rooms       []RoomSeed       `json:"rooms"`
}

func SeedSchoolsFromJSON(db *gorm.DB, filePath string) {
	log.Println("[SEED] reading", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("[SEED] cannot read %s: %v", filePath, err)
		return
	}
	var seeds []SchoolSeed
	if err := sonic.Unmarshal(file, &seeds); err != nil {
		log.Printf("[SEED] cannot decode %s: %v", filePath, err)
		return
	}

	for _, s := range seeds {
		if err := seedSchool(db, s); err != nil {
			log.Printf("[SEED] school %q: %v", s.Name, err)
		}
	}
}

func seedSchool(db *gorm.DB, s SchoolSeed) error {
	email := strings.ToLower(strings.TrimSpace(s.Admin.Email))
	var existing authModel.UserModel
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Printf("[SEED] %s already exists, skipped", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := service.HashPassword(s.Admin.Password)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		slug, err := helper.EnsureUniqueSlugCI(context.Background(), tx, "schools", "school_slug",
			helper.Slugify(s.Name, 150), nil, 160)
		if err != nil {
			return err
		}
		school := authModel.SchoolModel{Name: s.Name, Slug: slug}
		if err := tx.Create(&school).Error; err != nil {
			return err
		}

		admin := authModel.UserModel{
			SchoolID:   &school.ID,
			FullName:   s.Admin.FullName,
			Email:      email,
			Password:   hash,
			Roles:      append([]string(nil), constants.RegistrationRoles...),
			ActiveRole: authModel.RoleAdmin,
			IsActive:   true,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		for _, d := range s.Departments {
			m := deptModel.DepartmentModel{SchoolID: school.ID, Name: d.Name, Code: helper.Slugify(d.Name, 100)}
			if d.Description != "" {
				desc := d.Description
				m.Description = &desc
			}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
		}

		for _, r := range s.Rooms {
			features, _ := sonic.Marshal(append([]string{}, r.Features...))
			m := roomModel.RoomModel{
				SchoolID: school.ID,
				Name:     r.Name,
				IsActive: true,
				Features: datatypes.JSON(features),
			}
			if r.Building != "" {
				b := r.Building
				m.Building = &b
			}
			if r.Capacity > 0 {
				capacity := r.Capacity
				m.Capacity = &capacity
			}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
		}

		log.Printf("[SEED] school %q with %d departments and %d rooms", school.Name, len(s.Departments), len(s.Rooms))
		return nil
	})
}
