package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type TeacherModel struct {
	ID             uuid.UUID      `gorm:"column:teacher_id;type:uuid;default:gen_random_uuid();primaryKey" json:"teacher_id"`
	SchoolID       uuid.UUID      `gorm:"column:teacher_school_id;type:uuid;not null;index" json:"teacher_school_id"`
	FirstName      string         `gorm:"column:teacher_first_name;size:50;not null" json:"teacher_first_name"`
	LastName       *string        `gorm:"column:teacher_last_name;size:50" json:"teacher_last_name,omitempty"`
	Gender         *string        `gorm:"column:teacher_gender;size:10" json:"teacher_gender,omitempty"`
	BirthDate      *time.Time     `gorm:"column:teacher_birth_date;type:date" json:"teacher_birth_date,omitempty"`
	PhotoURL       *string        `gorm:"column:teacher_photo_url" json:"teacher_photo_url,omitempty"`
	Email          *string        `gorm:"column:teacher_email;size:255" json:"teacher_email,omitempty"`
	Phone          *string        `gorm:"column:teacher_phone;size:20" json:"teacher_phone,omitempty"`
	Address        *string        `gorm:"column:teacher_address" json:"teacher_address,omitempty"`
	EmployeeNumber string         `gorm:"column:teacher_employee_number;size:30;not null" json:"teacher_employee_number"`
	DepartmentID   *uuid.UUID     `gorm:"column:teacher_department_id;type:uuid;index" json:"teacher_department_id,omitempty"`
	HireDate       *time.Time     `gorm:"column:teacher_hire_date;type:date" json:"teacher_hire_date,omitempty"`
	Qualification  *string        `gorm:"column:teacher_qualification;size:100" json:"teacher_qualification,omitempty"`
	Subjects       pq.StringArray `gorm:"column:teacher_subjects;type:text[];not null;default:'{}'" json:"teacher_subjects"`
	IsActive       bool           `gorm:"column:teacher_is_active;not null;default:true" json:"teacher_is_active"`
	CreatedAt      time.Time      `gorm:"column:teacher_created_at;autoCreateTime" json:"teacher_created_at"`
	UpdatedAt      time.Time      `gorm:"column:teacher_updated_at;autoUpdateTime" json:"teacher_updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:teacher_deleted_at;index" json:"teacher_deleted_at,omitempty"`
}

func (TeacherModel) TableName() string { return "teachers" }
