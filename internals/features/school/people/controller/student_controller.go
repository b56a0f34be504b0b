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

type StudentController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Photos   Photos
}

func NewStudentController(db *gorm.DB, v *validator.Validate, photos Photos) *StudentController {
	if v == nil {
		v = helper.NewValidator()
	}
	return &StudentController{DB: db, Validate: v, Photos: photos}
}

// GET /students
func (ctl *StudentController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 200,
		"student_created_at", "student_first_name", "student_number", "student_grade_level", "student_updated_at")

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.StudentModel{}).
		Where("student_school_id = ?", schoolID)

	if s := c.Query("q"); s != "" {
		like := helper.LikePattern(s)
		q = q.Where(`LOWER(student_first_name) LIKE ?
			OR LOWER(COALESCE(student_last_name,'')) LIKE ?
			OR LOWER(student_number) LIKE ?
			OR LOWER(COALESCE(student_email,'')) LIKE ?`, like, like, like, like)
	}
	if g := c.QueryInt("grade_level", 0); g > 0 {
		q = q.Where("student_grade_level = ?", g)
	}
	deptID, err := helper.QueryUUIDPtr(c, "department_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "department_id is not a valid UUID")
	}
	if deptID != nil {
		q = q.Where("student_department_id = ?", *deptID)
	}
	parentID, err := helper.QueryUUIDPtr(c, "parent_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "parent_id is not a valid UUID")
	}
	if parentID != nil {
		q = q.Where("student_id IN (?)", ctl.DB.Model(&model.StudentParentModel{}).
			Select("student_parent_student_id").
			Where("student_parent_parent_id = ?", *parentID))
	}
	if b := helper.QueryBoolPtr(c, "is_active"); b != nil {
		q = q.Where("student_is_active = ?", *b)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count students")
	}
	var rows []model.StudentModel
	if err := q.Order(p.OrderClause()).Limit(p.PerPage).Offset(p.Offset).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch students")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

func (ctl *StudentController) find(c *fiber.Ctx, unscoped bool) (*model.StudentModel, error) {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid student id")
	}
	q := ctl.DB.WithContext(c.UserContext())
	if unscoped {
		q = q.Unscoped()
	}
	var m model.StudentModel
	if err := q.Where("student_id = ? AND student_school_id = ?", id, schoolID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}
	return &m, nil
}

// GET /students/:id
func (ctl *StudentController) GetByID(c *fiber.Ctx) error {
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}
	ids, err := parentIDsOf(ctl.DB.WithContext(c.UserContext()), m.ID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch parents")
	}
	return helper.JsonOK(c, "ok", dto.StudentResponse{StudentModel: *m, ParentIDs: ids})
}

// bindStudent reads the multipart form into form and validates it.
// A non-nil error has already been written to the response.
func (ctl *StudentController) bindStudent(c *fiber.Ctx, form *dto.StudentForm) (bool, error) {
	if err := formbind.BindRequest(c, form); err != nil {
		return false, helper.JsonBindError(c, err)
	}
	form.Normalize()
	if err := ctl.Validate.Struct(form); err != nil {
		return false, helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	return true, nil
}

func (ctl *StudentController) save(tx *gorm.DB, m *model.StudentModel, parentIDs []uuid.UUID, create bool) error {
	var self *uuid.UUID
	if !create {
		self = &m.ID
	}
	if err := ensureUniqueNumber(tx, studentsRef, "student_number", m.SchoolID, m.StudentNumber, self); err != nil {
		return err
	}
	if m.DepartmentID != nil {
		if err := ensureIDs(tx, departmentsRef, m.SchoolID, []uuid.UUID{*m.DepartmentID}, "academic.department_id"); err != nil {
			return err
		}
	}
	if err := ensureIDs(tx, parentsRef, m.SchoolID, parentIDs, "parent_ids"); err != nil {
		return err
	}
	if create {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
	} else if err := tx.Save(m).Error; err != nil {
		return err
	}
	return setStudentParents(tx, m.SchoolID, m.ID, parentIDs)
}

// POST /students (multipart/form-data)
func (ctl *StudentController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	var form dto.StudentForm
	if ok, err := ctl.bindStudent(c, &form); !ok {
		return err
	}

	m := form.ToModel(schoolID)
	photo, err := ctl.Photos.Upload(c.UserContext(), schoolID, "students", form.Personal.Photo)
	if err != nil {
		return writePhotoError(c, "personal.photo", err)
	}
	m.PhotoURL = photo

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		return ctl.save(tx, &m, form.ParentIDs, true)
	})
	if err != nil {
		ctl.Photos.Discard(c.UserContext(), photo)
		return writeSaveError(c, "student", err)
	}
	return helper.JsonCreated(c, "Student created", dto.StudentResponse{StudentModel: m, ParentIDs: form.ParentIDs})
}

// PATCH /students/:id (multipart/form-data)
// Keys absent from the form keep their stored value.
func (ctl *StudentController) Patch(c *fiber.Ctx) error {
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}
	parentIDs, err := parentIDsOf(ctl.DB.WithContext(c.UserContext()), m.ID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch parents")
	}

	form := dto.FromStudent(*m, parentIDs)
	if ok, err := ctl.bindStudent(c, &form); !ok {
		return err
	}

	oldPhoto := m.PhotoURL
	form.Apply(m)
	photo, err := ctl.Photos.Upload(c.UserContext(), m.SchoolID, "students", form.Personal.Photo)
	if err != nil {
		return writePhotoError(c, "personal.photo", err)
	}
	if photo != nil {
		m.PhotoURL = photo
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		return ctl.save(tx, m, form.ParentIDs, false)
	})
	if err != nil {
		ctl.Photos.Discard(c.UserContext(), photo)
		return writeSaveError(c, "student", err)
	}
	if oldPhoto != nil && (m.PhotoURL == nil || *m.PhotoURL != *oldPhoto) {
		ctl.Photos.Discard(c.UserContext(), oldPhoto)
	}
	return helper.JsonUpdated(c, "Student updated", dto.StudentResponse{StudentModel: *m, ParentIDs: form.ParentIDs})
}

// POST /students/validate?step=personal|contact|academic
func (ctl *StudentController) ValidateStep(c *fiber.Ctx) error {
	var form dto.StudentForm
	if err := formbind.BindRequest(c, &form); err != nil {
		return helper.JsonBindError(c, err)
	}
	form.Normalize()
	return helper.JsonStepResult(c, ctl.Validate, &form, strings.TrimSpace(c.Query("step")))
}

// DELETE /students/:id
func (ctl *StudentController) Delete(c *fiber.Ctx) error {
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}
	res := ctl.DB.WithContext(c.UserContext()).Model(&model.StudentModel{}).
		Where("student_id = ?", m.ID).
		Update("student_deleted_at", time.Now())
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete student")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}
	return helper.JsonDeleted(c, "Student deleted", fiber.Map{"student_id": m.ID})
}

// POST /students/:id/restore
func (ctl *StudentController) Restore(c *fiber.Ctx) error {
	m, err := ctl.find(c, true)
	if err != nil {
		return err
	}
	if !m.DeletedAt.Valid {
		return helper.JsonError(c, fiber.StatusConflict, "Student is not deleted")
	}
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueNumber(tx, studentsRef, "student_number", m.SchoolID, m.StudentNumber, &m.ID); err != nil {
			return err
		}
		return tx.Unscoped().Model(&model.StudentModel{}).
			Where("student_id = ?", m.ID).
			Update("student_deleted_at", nil).Error
	})
	if err != nil {
		return writeSaveError(c, "student", err)
	}
	m.DeletedAt = gorm.DeletedAt{}
	return helper.JsonOK(c, "Student restored", m)
}
