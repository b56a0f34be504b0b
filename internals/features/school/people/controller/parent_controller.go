package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/people/dto"
	"schoolku_backend/internals/features/school/people/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/helpers/formbind"
)

type ParentController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Photos   Photos
}

func NewParentController(db *gorm.DB, v *validator.Validate, photos Photos) *ParentController {
	if v == nil {
		v = helper.NewValidator()
	}
	return &ParentController{DB: db, Validate: v, Photos: photos}
}

// GET /parents
func (ctl *ParentController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 200,
		"parent_created_at", "parent_first_name", "parent_relationship", "parent_updated_at")

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.ParentModel{}).
		Where("parent_school_id = ?", schoolID)

	if s := c.Query("q"); s != "" {
		like := helper.LikePattern(s)
		q = q.Where(`LOWER(parent_first_name) LIKE ?
			OR LOWER(COALESCE(parent_last_name,'')) LIKE ?
			OR LOWER(COALESCE(parent_email,'')) LIKE ?
			OR COALESCE(parent_phone,'') LIKE ?`, like, like, like, like)
	}
	if rel := strings.ToLower(strings.TrimSpace(c.Query("relationship"))); rel != "" {
		q = q.Where("parent_relationship = ?", rel)
	}
	studentID, err := helper.QueryUUIDPtr(c, "student_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "student_id is not a valid UUID")
	}
	if studentID != nil {
		q = q.Where("parent_id IN (?)", ctl.DB.Model(&model.StudentParentModel{}).
			Select("student_parent_parent_id").
			Where("student_parent_student_id = ?", *studentID))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count parents")
	}
	var rows []model.ParentModel
	if err := q.Order(p.OrderClause()).Limit(p.PerPage).Offset(p.Offset).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch parents")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

func (ctl *ParentController) find(c *fiber.Ctx, unscoped bool) (*model.ParentModel, error) {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid parent id")
	}
	q := ctl.DB.WithContext(c.UserContext())
	if unscoped {
		q = q.Unscoped()
	}
	var m model.ParentModel
	if err := q.Where("parent_id = ? AND parent_school_id = ?", id, schoolID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Parent not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch parent")
	}
	return &m, nil
}

// GET /parents/:id
func (ctl *ParentController) GetByID(c *fiber.Ctx) error {
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}
	ids, err := studentIDsOf(ctl.DB.WithContext(c.UserContext()), m.ID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch students")
	}
	return helper.JsonOK(c, "ok", dto.ParentResponse{ParentModel: *m, StudentIDs: ids})
}

func (ctl *ParentController) bindParent(c *fiber.Ctx, form *dto.ParentForm) (bool, error) {
	if err := formbind.BindRequest(c, form); err != nil {
		return false, helper.JsonBindError(c, err)
	}
	form.Normalize()
	if err := ctl.Validate.Struct(form); err != nil {
		return false, helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	return true, nil
}

func (ctl *ParentController) save(tx *gorm.DB, m *model.ParentModel, form dto.ParentForm, create bool) error {
	if err := ensureIDs(tx, studentsRef, m.SchoolID, form.Relation.StudentIDs, "relation.student_ids"); err != nil {
		return err
	}
	if create {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
	} else if err := tx.Save(m).Error; err != nil {
		return err
	}
	return setParentStudents(tx, m.SchoolID, m.ID, form.Relation.StudentIDs)
}

// POST /parents (multipart/form-data)
func (ctl *ParentController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	var form dto.ParentForm
	if ok, err := ctl.bindParent(c, &form); !ok {
		return err
	}

	m := form.ToModel(schoolID)
	photo, err := ctl.Photos.Upload(c.UserContext(), schoolID, "parents", form.Personal.Photo)
	if err != nil {
		return writePhotoError(c, "personal.photo", err)
	}
	m.PhotoURL = photo

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		return ctl.save(tx, &m, form, true)
	})
	if err != nil {
		ctl.Photos.Discard(c.UserContext(), photo)
		return writeSaveError(c, "parent", err)
	}
	return helper.JsonCreated(c, "Parent created", dto.ParentResponse{ParentModel: m, StudentIDs: form.Relation.StudentIDs})
}

// PATCH /parents/:id (multipart/form-data)
func (ctl *ParentController) Patch(c *fiber.Ctx) error {
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}
	studentIDs, err := studentIDsOf(ctl.DB.WithContext(c.UserContext()), m.ID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch students")
	}
	form := dto.FromParent(*m, studentIDs)
	if ok, err := ctl.bindParent(c, &form); !ok {
		return err
	}

	oldPhoto := m.PhotoURL
	form.Apply(m)
	photo, err := ctl.Photos.Upload(c.UserContext(), m.SchoolID, "parents", form.Personal.Photo)
	if err != nil {
		return writePhotoError(c, "personal.photo", err)
	}
	if photo != nil {
		m.PhotoURL = photo
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		return ctl.save(tx, m, form, false)
	})
	if err != nil {
		ctl.Photos.Discard(c.UserContext(), photo)
		return writeSaveError(c, "parent", err)
	}
	if oldPhoto != nil && (m.PhotoURL == nil || *m.PhotoURL != *oldPhoto) {
		ctl.Photos.Discard(c.UserContext(), oldPhoto)
	}
	return helper.JsonUpdated(c, "Parent updated", dto.ParentResponse{ParentModel: *m, StudentIDs: form.Relation.StudentIDs})
}

// POST /parents/validate?step=personal|contact|relation
func (ctl *ParentController) ValidateStep(c *fiber.Ctx) error {
	var form dto.ParentForm
	if err := formbind.BindRequest(c, &form); err != nil {
		return helper.JsonBindError(c, err)
	}
	form.Normalize()
	return helper.JsonStepResult(c, ctl.Validate, &form, strings.TrimSpace(c.Query("step")))
}

// DELETE /parents/:id
func (ctl *ParentController) Delete(c *fiber.Ctx) error {
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}
	res := ctl.DB.WithContext(c.UserContext()).Model(&model.ParentModel{}).
		Where("parent_id = ?", m.ID).
		Update("parent_deleted_at", time.Now())
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete parent")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Parent not found")
	}
	return helper.JsonDeleted(c, "Parent deleted", fiber.Map{"parent_id": m.ID})
}

// POST /parents/:id/restore
func (ctl *ParentController) Restore(c *fiber.Ctx) error {
	m, err := ctl.find(c, true)
	if err != nil {
		return err
	}
	if !m.DeletedAt.Valid {
		return helper.JsonError(c, fiber.StatusConflict, "Parent is not deleted")
	}
	if err := ctl.DB.WithContext(c.UserContext()).Unscoped().Model(&model.ParentModel{}).
		Where("parent_id = ?", m.ID).
		Update("parent_deleted_at", nil).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to restore parent")
	}
	m.DeletedAt = gorm.DeletedAt{}
	return helper.JsonOK(c, "Parent restored", m)
}
