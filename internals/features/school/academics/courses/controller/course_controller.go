package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/academics/courses/dto"
	model "schoolku_backend/internals/features/school/academics/courses/model"
	deptModel "schoolku_backend/internals/features/school/academics/departments/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
)

var errDepartmentNotFound = errors.New("department not found in this school")

type CourseController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewCourseController(db *gorm.DB, v *validator.Validate) *CourseController {
	if v == nil {
		v = helper.NewValidator()
	}
	return &CourseController{DB: db, Validate: v}
}

func (ctl *CourseController) uniqueCode(c *fiber.Ctx, tx *gorm.DB, schoolID uuid.UUID, base string, self *uuid.UUID) (string, error) {
	return helper.EnsureUniqueSlugCI(c.UserContext(), tx, "courses", "course_code",
		helper.Slugify(base, 100),
		func(q *gorm.DB) *gorm.DB {
			q = q.Where("course_school_id = ? AND course_deleted_at IS NULL", schoolID)
			if self != nil {
				q = q.Where("course_id <> ?", *self)
			}
			return q
		}, 120)
}

func ensureDepartment(tx *gorm.DB, schoolID, departmentID uuid.UUID) error {
	var n int64
	err := tx.Model(&deptModel.DepartmentModel{}).
		Where("department_id = ? AND department_school_id = ?", departmentID, schoolID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return errDepartmentNotFound
	}
	return nil
}

func (ctl *CourseController) writeError(c *fiber.Ctx, op string, err error) error {
	switch {
	case errors.Is(err, errDepartmentNotFound):
		return helper.JsonValidationError(c, map[string][]string{"course_department_id": {"department not found"}})
	case helper.IsUniqueViolation(err):
		return helper.JsonError(c, fiber.StatusConflict, "Course code already exists")
	case helper.IsForeignKeyViolation(err):
		return helper.JsonError(c, fiber.StatusBadRequest, "Referenced record does not exist")
	}
	log.Printf("[ERROR] %s course: %v", op, err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to "+op+" course")
}

// GET /courses
func (ctl *CourseController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 100,
		"course_created_at", "course_name", "course_code", "course_credits", "course_updated_at")

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.CourseModel{}).
		Where("course_school_id = ?", schoolID)

	if s := c.Query("q"); s != "" {
		like := helper.LikePattern(s)
		q = q.Where("LOWER(course_name) LIKE ? OR LOWER(course_code) LIKE ?", like, like)
	}
	deptID, err := helper.QueryUUIDPtr(c, "department_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "department_id is not a valid UUID")
	}
	if deptID != nil {
		q = q.Where("course_department_id = ?", *deptID)
	}
	teacherID, err := helper.QueryUUIDPtr(c, "teacher_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "teacher_id is not a valid UUID")
	}
	if teacherID != nil {
		q = q.Where("course_teacher_id = ?", *teacherID)
	}
	if day := strings.ToLower(strings.TrimSpace(c.Query("day"))); day != "" {
		q = q.Where("? = ANY(course_weekly_days)", day)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count courses")
	}
	var rows []model.CourseModel
	if err := q.Order(p.OrderClause()).Limit(p.PerPage).Offset(p.Offset).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch courses")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

func (ctl *CourseController) find(c *fiber.Ctx, unscoped bool) (*model.CourseModel, error) {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid course id")
	}
	q := ctl.DB.WithContext(c.UserContext())
	if unscoped {
		q = q.Unscoped()
	}
	var m model.CourseModel
	if err := q.Where("course_id = ? AND course_school_id = ?", id, schoolID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Course not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch course")
	}
	return &m, nil
}

// GET /courses/:id
func (ctl *CourseController) GetByID(c *fiber.Ctx) error {
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", m)
}

// POST /courses
func (ctl *CourseController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	var req dto.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	m := req.ToModel(schoolID)
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := ensureDepartment(tx, schoolID, m.DepartmentID); err != nil {
			return err
		}
		base := req.Code
		if base == "" {
			base = req.Name
		}
		code, err := ctl.uniqueCode(c, tx, schoolID, base, nil)
		if err != nil {
			return err
		}
		m.Code = code
		return tx.Create(&m).Error
	})
	if err != nil {
		return ctl.writeError(c, "create", err)
	}
	return helper.JsonCreated(c, "Course created", m)
}

// PATCH /courses/:id
func (ctl *CourseController) Patch(c *fiber.Ctx) error {
	var req dto.PatchCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}
	req.Apply(m)
	merged := dto.FromCourse(*m)
	if err := ctl.Validate.Struct(&merged); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if req.DepartmentID.Present {
			if err := ensureDepartment(tx, m.SchoolID, m.DepartmentID); err != nil {
				return err
			}
		}
		if req.Code.Present {
			base := m.Code
			if base == "" {
				base = m.Name
			}
			code, err := ctl.uniqueCode(c, tx, m.SchoolID, base, &m.ID)
			if err != nil {
				return err
			}
			m.Code = code
		}
		return tx.Save(m).Error
	})
	if err != nil {
		return ctl.writeError(c, "update", err)
	}
	return helper.JsonUpdated(c, "Course updated", m)
}

// DELETE /courses/:id
func (ctl *CourseController) Delete(c *fiber.Ctx) error {
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}
	res := ctl.DB.WithContext(c.UserContext()).Model(&model.CourseModel{}).
		Where("course_id = ?", m.ID).
		Update("course_deleted_at", time.Now())
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete course")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Course not found")
	}
	return helper.JsonDeleted(c, "Course deleted", fiber.Map{"course_id": m.ID})
}

// POST /courses/:id/restore
func (ctl *CourseController) Restore(c *fiber.Ctx) error {
	m, err := ctl.find(c, true)
	if err != nil {
		return err
	}
	if !m.DeletedAt.Valid {
		return helper.JsonError(c, fiber.StatusConflict, "Course is not deleted")
	}
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		code, err := ctl.uniqueCode(c, tx, m.SchoolID, m.Code, &m.ID)
		if err != nil {
			return err
		}
		return tx.Unscoped().Model(&model.CourseModel{}).
			Where("course_id = ?", m.ID).
			Updates(map[string]any{"course_deleted_at": nil, "course_code": code}).Error
	})
	if err != nil {
		return ctl.writeError(c, "restore", err)
	}
	m, err = ctl.find(c, false)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Course restored", m)
}
