package dto

import (
	"strings"

	"github.com/google/uuid"

	model "schoolku_backend/internals/features/school/academics/departments/model"
	helper "schoolku_backend/internals/helpers"
)

type CreateDepartmentRequest struct {
	Name          string     `json:"department_name" form:"department_name" validate:"required,min=3,max=100"`
	Code          string     `json:"department_code" form:"department_code" validate:"omitempty,max=120"`
	Description   *string    `json:"department_description" form:"department_description" validate:"omitempty,max=2000"`
	HeadTeacherID *uuid.UUID `json:"department_head_teacher_id" form:"department_head_teacher_id"`
}

func (r *CreateDepartmentRequest) Normalize() {
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
}

func (r CreateDepartmentRequest) ToModel(schoolID uuid.UUID) model.DepartmentModel {
	return model.DepartmentModel{
		SchoolID:      schoolID,
		Name:          r.Name,
		Code:          r.Code,
		Description:   r.Description,
		HeadTeacherID: r.HeadTeacherID,
	}
}

// FromDepartment rebuilds a create request from a stored row so a patched row
// can be validated with the create rules.
func FromDepartment(m model.DepartmentModel) CreateDepartmentRequest {
	return CreateDepartmentRequest{
		Name:          m.Name,
		Code:          m.Code,
		Description:   m.Description,
		HeadTeacherID: m.HeadTeacherID,
	}
}

type PatchDepartmentRequest struct {
	Name          helper.PatchField[string]    `json:"department_name"`
	Code          helper.PatchField[string]    `json:"department_code"`
	Description   helper.PatchField[string]    `json:"department_description"`
	HeadTeacherID helper.PatchField[uuid.UUID] `json:"department_head_teacher_id"`
}

func (p PatchDepartmentRequest) Apply(m *model.DepartmentModel) {
	p.Name.ApplyTo(&m.Name)
	p.Code.ApplyTo(&m.Code)
	p.Description.ApplyPtr(&m.Description)
	p.HeadTeacherID.ApplyPtr(&m.HeadTeacherID)
	m.Name = strings.TrimSpace(m.Name)
	m.Code = strings.TrimSpace(m.Code)
}

// CodeChanged reports whether the patch touches the code.
func (p PatchDepartmentRequest) CodeChanged() bool {
	return p.Code.Present
}
