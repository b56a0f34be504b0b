package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentModel struct {
	ID             uuid.UUID      `gorm:"column:student_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_id"`
	SchoolID       uuid.UUID      `gorm:"column:student_school_id;type:uuid;not null;index" json:"student_school_id"`
	FirstName      string         `gorm:"column:student_first_name;size:50;not null" json:"student_first_name"`
	LastName       *string        `gorm:"column:student_last_name;size:50" json:"student_last_name,omitempty"`
	Gender         *string        `gorm:"column:student_gender;size:10" json:"student_gender,omitempty"`
	BirthDate      *time.Time     `gorm:"column:student_birth_date;type:date" json:"student_birth_date,omitempty"`
	PhotoURL       *string        `gorm:"column:student_photo_url" json:"student_photo_url,omitempty"`
	Email          *string        `gorm:"column:student_email;size:255" json:"student_email,omitempty"`
	Phone          *string        `gorm:"column:student_phone;size:20" json:"student_phone,omitempty"`
	Address        *string        `gorm:"column:student_address" json:"student_address,omitempty"`
	StudentNumber  string         `gorm:"column:student_number;size:30;not null" json:"student_number"`
	GradeLevel     int            `gorm:"column:student_grade_level;not null" json:"student_grade_level"`
	DepartmentID   *uuid.UUID     `gorm:"column:student_department_id;type:uuid;index" json:"student_department_id,omitempty"`
	EnrollmentDate *time.Time     `gorm:"column:student_enrollment_date;type:date" json:"student_enrollment_date,omitempty"`
	IsActive       bool           `gorm:"column:student_is_active;not null;default:true" json:"student_is_active"`
	CreatedAt      time.Time      `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	UpdatedAt      time.Time      `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"student_deleted_at,omitempty"`
}

func (StudentModel) TableName() string { return "students" }
