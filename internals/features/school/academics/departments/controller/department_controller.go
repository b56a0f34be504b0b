package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/academics/departments/dto"
	model "schoolku_backend/internals/features/school/academics/departments/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
)

const codeMaxLen = 120

type DepartmentController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewDepartmentController(db *gorm.DB, v *validator.Validate) *DepartmentController {
	if v == nil {
		v = helper.NewValidator()
	}
	return &DepartmentController{DB: db, Validate: v}
}

func (ctl *DepartmentController) uniqueCode(c *fiber.Ctx, tx *gorm.DB, schoolID uuid.UUID, base string, self *uuid.UUID) (string, error) {
	return helper.EnsureUniqueSlugCI(c.UserContext(), tx, "departments", "department_code",
		helper.Slugify(base, 100),
		func(q *gorm.DB) *gorm.DB {
			q = q.Where("department_school_id = ? AND department_deleted_at IS NULL", schoolID)
			if self != nil {
				q = q.Where("department_id <> ?", *self)
			}
			return q
		}, codeMaxLen)
}

// GET /departments
func (ctl *DepartmentController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 20, 100,
		"department_created_at", "department_name", "department_code", "department_updated_at")

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.DepartmentModel{}).
		Where("department_school_id = ?", schoolID)

	if s := c.Query("q"); s != "" {
		like := helper.LikePattern(s)
		q = q.Where("LOWER(department_name) LIKE ? OR LOWER(department_code) LIKE ? OR LOWER(COALESCE(department_description,'')) LIKE ?",
			like, like, like)
	}
	head, err := helper.QueryUUIDPtr(c, "head_teacher_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "head_teacher_id is not a valid UUID")
	}
	if head != nil {
		q = q.Where("department_head_teacher_id = ?", *head)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count departments")
	}

	var rows []model.DepartmentModel
	if err := q.Order(p.OrderClause()).Limit(p.PerPage).Offset(p.Offset).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch departments")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

func (ctl *DepartmentController) find(c *fiber.Ctx, unscoped bool) (*model.DepartmentModel, error) {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid department id")
	}
	q := ctl.DB.WithContext(c.UserContext())
	if unscoped {
		q = q.Unscoped()
	}
	var m model.DepartmentModel
	if err := q.Where("department_id = ? AND department_school_id = ?", id, schoolID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Department not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch department")
	}
	return &m, nil
}

// GET /departments/:id
func (ctl *DepartmentController) GetByID(c *fiber.Ctx) error {
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", m)
}

// POST /departments
func (ctl *DepartmentController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	m := req.ToModel(schoolID)
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
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
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Department code already exists")
		}
		log.Printf("[ERROR] create department: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create department")
	}
	return helper.JsonCreated(c, "Department created", m)
}

// PATCH /departments/:id
func (ctl *DepartmentController) Patch(c *fiber.Ctx) error {
	var req dto.PatchDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}

	req.Apply(m)
	merged := dto.FromDepartment(*m)
	if err := ctl.Validate.Struct(&merged); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if req.CodeChanged() {
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
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Department code already exists")
		}
		log.Printf("[ERROR] patch department: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update department")
	}
	return helper.JsonUpdated(c, "Department updated", m)
}

// DELETE /departments/:id
func (ctl *DepartmentController) Delete(c *fiber.Ctx) error {
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}
	res := ctl.DB.WithContext(c.UserContext()).Model(&model.DepartmentModel{}).
		Where("department_id = ?", m.ID).
		Update("department_deleted_at", time.Now())
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete department")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Department not found")
	}
	return helper.JsonDeleted(c, "Department deleted", fiber.Map{"department_id": m.ID})
}

// POST /departments/:id/restore
func (ctl *DepartmentController) Restore(c *fiber.Ctx) error {
	m, err := ctl.find(c, true)
	if err != nil {
		return err
	}
	if !m.DeletedAt.Valid {
		return helper.JsonError(c, fiber.StatusConflict, "Department is not deleted")
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		// another row may have taken the code meanwhile
		code, err := ctl.uniqueCode(c, tx, m.SchoolID, m.Code, &m.ID)
		if err != nil {
			return err
		}
		return tx.Unscoped().Model(&model.DepartmentModel{}).
			Where("department_id = ?", m.ID).
			Updates(map[string]any{"department_deleted_at": nil, "department_code": code}).Error
	})
	if err != nil {
		log.Printf("[ERROR] restore department: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to restore department")
	}
	m, err = ctl.find(c, false)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Department restored", m)
}
