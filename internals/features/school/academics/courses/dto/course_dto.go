package dto

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	model "schoolku_backend/internals/features/school/academics/courses/model"
	helper "schoolku_backend/internals/helpers"
)

type CreateCourseRequest struct {
	DepartmentID uuid.UUID  `json:"course_department_id" form:"course_department_id" validate:"required"`
	Name         string     `json:"course_name" form:"course_name" validate:"required,min=2,max=150"`
	Code         string     `json:"course_code" form:"course_code" validate:"omitempty,max=120"`
	Credits      int        `json:"course_credits" form:"course_credits" validate:"min=0,max=60"`
	Description  *string    `json:"course_description" form:"course_description" validate:"omitempty,max=2000"`
	TeacherID    *uuid.UUID `json:"course_teacher_id" form:"course_teacher_id"`
	WeeklyDays   []string   `json:"course_weekly_days" form:"course_weekly_days" validate:"omitempty,unique,dive,oneof=mon tue wed thu fri sat sun"`
}

func (r *CreateCourseRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Code = strings.TrimSpace(r.Code)
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		if d == "" {
			r.Description = nil
		} else {
			r.Description = &d
		}
	}
	r.WeeklyDays = NormalizeDays(r.WeeklyDays)
}

// NormalizeDays lowercases, trims and orders days Monday first. Unknown values
// are kept so validation can report them.
func NormalizeDays(days []string) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if len(d) > 3 && slices.Contains(model.Weekdays, d[:3]) {
			d = d[:3]
		}
		if d != "" {
			out = append(out, d)
		}
	}
	slices.SortStableFunc(out, func(a, b string) int {
		return rank(a) - rank(b)
	})
	return out
}

func rank(d string) int {
	if i := slices.Index(model.Weekdays, d); i >= 0 {
		return i
	}
	return len(model.Weekdays)
}

func (r CreateCourseRequest) ToModel(schoolID uuid.UUID) model.CourseModel {
	return model.CourseModel{
		SchoolID:     schoolID,
		DepartmentID: r.DepartmentID,
		Name:         r.Name,
		Code:         r.Code,
		Credits:      r.Credits,
		Description:  r.Description,
		TeacherID:    r.TeacherID,
		WeeklyDays:   r.WeeklyDays,
	}
}

func FromCourse(m model.CourseModel) CreateCourseRequest {
	return CreateCourseRequest{
		DepartmentID: m.DepartmentID,
		Name:         m.Name,
		Code:         m.Code,
		Credits:      m.Credits,
		Description:  m.Description,
		TeacherID:    m.TeacherID,
		WeeklyDays:   m.WeeklyDays,
	}
}

type PatchCourseRequest struct {
	DepartmentID helper.PatchField[uuid.UUID] `json:"course_department_id"`
	Name         helper.PatchField[string]    `json:"course_name"`
	Code         helper.PatchField[string]    `json:"course_code"`
	Credits      helper.PatchField[int]       `json:"course_credits"`
	Description  helper.PatchField[string]    `json:"course_description"`
	TeacherID    helper.PatchField[uuid.UUID] `json:"course_teacher_id"`
	WeeklyDays   helper.PatchField[[]string]  `json:"course_weekly_days"`
}

func (p PatchCourseRequest) Apply(m *model.CourseModel) {
	p.DepartmentID.ApplyTo(&m.DepartmentID)
	p.Name.ApplyTo(&m.Name)
	p.Code.ApplyTo(&m.Code)
	p.Credits.ApplyTo(&m.Credits)
	p.Description.ApplyPtr(&m.Description)
	p.TeacherID.ApplyPtr(&m.TeacherID)
	if days, ok := p.WeeklyDays.Get(); ok {
		if days == nil {
			m.WeeklyDays = []string{}
		} else {
			m.WeeklyDays = NormalizeDays(*days)
		}
	}
	m.Name = strings.TrimSpace(m.Name)
	m.Code = strings.TrimSpace(m.Code)
}
