package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/people/dto"
	"schoolku_backend/internals/features/school/people/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/helpers/formbind"
)

type TeacherController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Photos   Photos
}

func NewTeacherController(db *gorm.DB, v *validator.Validate, photos Photos) *TeacherController {
	if v == nil {
		v = helper.NewValidator()
	}
	return &TeacherController{DB: db, Validate: v, Photos: photos}
}

// GET /teachers
func (ctl *TeacherController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 200,
		"teacher_created_at", "teacher_first_name", "teacher_employee_number", "teacher_hire_date", "teacher_updated_at")

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.TeacherModel{}).
		Where("teacher_school_id = ?", schoolID)

	if s := c.Query("q"); s != "" {
		like := helper.LikePattern(s)
		q = q.Where(`LOWER(teacher_first_name) LIKE ?
			OR LOWER(COALESCE(teacher_last_name,'')) LIKE ?
			OR LOWER(teacher_employee_number) LIKE ?
			OR LOWER(COALESCE(teacher_email,'')) LIKE ?`, like, like, like, like)
	}
	deptID, err := helper.QueryUUIDPtr(c, "department_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "department_id is not a valid UUID")
	}
	if deptID != nil {
		q = q.Where("teacher_department_id = ?", *deptID)
	}
	if subj := strings.TrimSpace(c.Query("subject")); subj != "" {
		q = q.Where("EXISTS (SELECT 1 FROM unnest(teacher_subjects) s WHERE LOWER(s) = LOWER(?))", subj)
	}
	if b := helper.QueryBoolPtr(c, "is_active"); b != nil {
		q = q.Where("teacher_is_active = ?", *b)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count teachers")
	}
	var rows []model.TeacherModel
	if err := q.Order(p.OrderClause()).Limit(p.PerPage).Offset(p.Offset).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch teachers")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

func (ctl *TeacherController) find(c *fiber.Ctx, unscoped bool) (*model.TeacherModel, error) {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid teacher id")
	}
	q := ctl.DB.WithContext(c.UserContext())
	if unscoped {
		q = q.Unscoped()
	}
	var m model.TeacherModel
	if err := q.Where("teacher_id = ? AND teacher_school_id = ?", id, schoolID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Teacher not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch teacher")
	}
	return &m, nil
}

// GET /teachers/:id
func (ctl *TeacherController) GetByID(c *fiber.Ctx) error {
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", m)
}

func (ctl *TeacherController) bindTeacher(c *fiber.Ctx, form *dto.TeacherForm) (bool, error) {
	if err := formbind.BindRequest(c, form); err != nil {
		return false, helper.JsonBindError(c, err)
	}
	form.Normalize()
	if err := ctl.Validate.Struct(form); err != nil {
		return false, helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	return true, nil
}

func (ctl *TeacherController) save(tx *gorm.DB, m *model.TeacherModel, create bool) error {
	var self *uuid.UUID
	if !create {
		self = &m.ID
	}
	if err := ensureUniqueNumber(tx, teachersRef, "teacher_employee_number", m.SchoolID, m.EmployeeNumber, self); err != nil {
		return err
	}
	if m.DepartmentID != nil {
		if err := ensureIDs(tx, departmentsRef, m.SchoolID, []uuid.UUID{*m.DepartmentID}, "employment.department_id"); err != nil {
			return err
		}
	}
	if create {
		return tx.Create(m).Error
	}
	return tx.Save(m).Error
}

// POST /teachers (multipart/form-data)
func (ctl *TeacherController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	var form dto.TeacherForm
	if ok, err := ctl.bindTeacher(c, &form); !ok {
		return err
	}

	m := form.ToModel(schoolID)
	photo, err := ctl.Photos.Upload(c.UserContext(), schoolID, "teachers", form.Personal.Photo)
	if err != nil {
		return writePhotoError(c, "personal.photo", err)
	}
	m.PhotoURL = photo

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		return ctl.save(tx, &m, true)
	})
	if err != nil {
		ctl.Photos.Discard(c.UserContext(), photo)
		return writeSaveError(c, "teacher", err)
	}
	return helper.JsonCreated(c, "Teacher created", m)
}

// PATCH /teachers/:id (multipart/form-data)
func (ctl *TeacherController) Patch(c *fiber.Ctx) error {
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}
	form := dto.FromTeacher(*m)
	if ok, err := ctl.bindTeacher(c, &form); !ok {
		return err
	}

	oldPhoto := m.PhotoURL
	form.Apply(m)
	photo, err := ctl.Photos.Upload(c.UserContext(), m.SchoolID, "teachers", form.Personal.Photo)
	if err != nil {
		return writePhotoError(c, "personal.photo", err)
	}
	if photo != nil {
		m.PhotoURL = photo
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		return ctl.save(tx, m, false)
	})
	if err != nil {
		ctl.Photos.Discard(c.UserContext(), photo)
		return writeSaveError(c, "teacher", err)
	}
	if oldPhoto != nil && (m.PhotoURL == nil || *m.PhotoURL != *oldPhoto) {
		ctl.Photos.Discard(c.UserContext(), oldPhoto)
	}
	return helper.JsonUpdated(c, "Teacher updated", m)
}

// POST /teachers/validate?step=personal|contact|employment
func (ctl *TeacherController) ValidateStep(c *fiber.Ctx) error {
	var form dto.TeacherForm
	if err := formbind.BindRequest(c, &form); err != nil {
		return helper.JsonBindError(c, err)
	}
	form.Normalize()
	return helper.JsonStepResult(c, ctl.Validate, &form, strings.TrimSpace(c.Query("step")))
}

// DELETE /teachers/:id
func (ctl *TeacherController) Delete(c *fiber.Ctx) error {
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}
	res := ctl.DB.WithContext(c.UserContext()).Model(&model.TeacherModel{}).
		Where("teacher_id = ?", m.ID).
		Update("teacher_deleted_at", time.Now())
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete teacher")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Teacher not found")
	}
	return helper.JsonDeleted(c, "Teacher deleted", fiber.Map{"teacher_id": m.ID})
}

// POST /teachers/:id/restore
func (ctl *TeacherController) Restore(c *fiber.Ctx) error {
	m, err := ctl.find(c, true)
	if err != nil {
		return err
	}
	if !m.DeletedAt.Valid {
		return helper.JsonError(c, fiber.StatusConflict, "Teacher is not deleted")
	}
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueNumber(tx, teachersRef, "teacher_employee_number", m.SchoolID, m.EmployeeNumber, &m.ID); err != nil {
			return err
		}
		return tx.Unscoped().Model(&model.TeacherModel{}).
			Where("teacher_id = ?", m.ID).
			Update("teacher_deleted_at", nil).Error
	})
	if err != nil {
		return writeSaveError(c, "teacher", err)
	}
	m.DeletedAt = gorm.DeletedAt{}
	return helper.JsonOK(c, "Teacher restored", m)
}
