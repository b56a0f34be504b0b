package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DepartmentModel struct {
	ID            uuid.UUID      `gorm:"column:department_id;type:uuid;default:gen_random_uuid();primaryKey" json:"department_id"`
	SchoolID      uuid.UUID      `gorm:"column:department_school_id;type:uuid;not null;index" json:"department_school_id"`
	Name          string         `gorm:"column:department_name;size:100;not null" json:"department_name"`
	Code          string         `gorm:"column:department_code;size:120;not null" json:"department_code"`
	Description   *string        `gorm:"column:department_description" json:"department_description,omitempty"`
	HeadTeacherID *uuid.UUID     `gorm:"column:department_head_teacher_id;type:uuid" json:"department_head_teacher_id,omitempty"`
	CreatedAt     time.Time      `gorm:"column:department_created_at;autoCreateTime" json:"department_created_at"`
	UpdatedAt     time.Time      `gorm:"column:department_updated_at;autoUpdateTime" json:"department_updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"column:department_deleted_at;index" json:"department_deleted_at,omitempty"`
}

func (DepartmentModel) TableName() string { return "departments" }
