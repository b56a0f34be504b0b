package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/academics/rooms/dto"
	model "schoolku_backend/internals/features/school/academics/rooms/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/helpers/formbind"
)

type RoomController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewRoomController(db *gorm.DB, v *validator.Validate) *RoomController {
	if v == nil {
		v = helper.NewValidator()
	}
	return &RoomController{DB: db, Validate: v}
}

// decode reads a JSON body or a nested form body into form.
func decode(c *fiber.Ctx, form *dto.RoomForm) error {
	ct := strings.ToLower(string(c.Request().Header.ContentType()))
	if strings.HasPrefix(ct, fiber.MIMEApplicationJSON) {
		if err := c.BodyParser(form); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		return nil
	}
	return formbind.BindRequest(c, form)
}

func writeDecodeError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	return helper.JsonBindError(c, err)
}

// GET /rooms
func (ctl *RoomController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 200,
		"room_created_at", "room_name", "room_capacity", "room_updated_at")

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.RoomModel{}).
		Where("room_school_id = ?", schoolID)

	if s := c.Query("q"); s != "" {
		like := helper.LikePattern(s)
		q = q.Where(`LOWER(room_name) LIKE ?
			OR LOWER(COALESCE(room_code,'')) LIKE ?
			OR LOWER(COALESCE(room_building,'')) LIKE ?`, like, like, like)
	}
	if b := helper.QueryBoolPtr(c, "is_active"); b != nil {
		q = q.Where("room_is_active = ?", *b)
	}
	if b := helper.QueryBoolPtr(c, "is_virtual"); b != nil {
		q = q.Where("room_is_virtual = ?", *b)
	}
	if minCap := c.QueryInt("min_capacity", 0); minCap > 0 {
		q = q.Where("room_capacity >= ?", minCap)
	}
	if f := strings.ToLower(strings.TrimSpace(c.Query("feature"))); f != "" {
		want, _ := sonic.Marshal([]string{f})
		q = q.Where("room_features @> ?::jsonb", string(want))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count rooms")
	}
	var rows []model.RoomModel
	if err := q.Order(p.OrderClause()).Limit(p.PerPage).Offset(p.Offset).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch rooms")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

func (ctl *RoomController) find(c *fiber.Ctx, unscoped bool) (*model.RoomModel, error) {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid room id")
	}
	q := ctl.DB.WithContext(c.UserContext())
	if unscoped {
		q = q.Unscoped()
	}
	var m model.RoomModel
	if err := q.Where("room_id = ? AND room_school_id = ?", id, schoolID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Room not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch room")
	}
	return &m, nil
}

// GET /rooms/:id
func (ctl *RoomController) GetByID(c *fiber.Ctx) error {
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", m)
}

// POST /rooms
func (ctl *RoomController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	var form dto.RoomForm
	if err := decode(c, &form); err != nil {
		return writeDecodeError(c, err)
	}
	form.Normalize()
	if err := ctl.Validate.Struct(&form); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	m := form.ToModel(schoolID)
	if err := ctl.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Room code already exists")
		}
		log.Printf("[ERROR] create room: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create room")
	}
	return helper.JsonCreated(c, "Room created", m)
}

// PATCH /rooms/:id
// Fields absent from the body keep their stored value.
func (ctl *RoomController) Patch(c *fiber.Ctx) error {
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}
	form := dto.FromRoom(*m)
	if err := decode(c, &form); err != nil {
		return writeDecodeError(c, err)
	}
	form.Normalize()
	if err := ctl.Validate.Struct(&form); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	form.Apply(m)
	if err := ctl.DB.WithContext(c.UserContext()).Save(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Room code already exists")
		}
		log.Printf("[ERROR] patch room: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update room")
	}
	return helper.JsonUpdated(c, "Room updated", m)
}

// POST /rooms/validate?step=room|location
func (ctl *RoomController) ValidateStep(c *fiber.Ctx) error {
	var form dto.RoomForm
	if err := decode(c, &form); err != nil {
		return writeDecodeError(c, err)
	}
	form.Normalize()
	return helper.JsonStepResult(c, ctl.Validate, &form, c.Query("step"))
}

// DELETE /rooms/:id
func (ctl *RoomController) Delete(c *fiber.Ctx) error {
	m, err := ctl.find(c, false)
	if err != nil {
		return err
	}
	res := ctl.DB.WithContext(c.UserContext()).Model(&model.RoomModel{}).
		Where("room_id = ?", m.ID).
		Update("room_deleted_at", time.Now())
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete room")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Room not found")
	}
	return helper.JsonDeleted(c, "Room deleted", fiber.Map{"room_id": m.ID})
}

// POST /rooms/:id/restore
func (ctl *RoomController) Restore(c *fiber.Ctx) error {
	m, err := ctl.find(c, true)
	if err != nil {
		return err
	}
	if !m.DeletedAt.Valid {
		return helper.JsonError(c, fiber.StatusConflict, "Room is not deleted")
	}
	if err := ctl.DB.WithContext(c.UserContext()).Unscoped().Model(&model.RoomModel{}).
		Where("room_id = ?", m.ID).
		Update("room_deleted_at", nil).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to restore room")
	}
	m.DeletedAt = gorm.DeletedAt{}
	return helper.JsonOK(c, "Room restored", m)
}
