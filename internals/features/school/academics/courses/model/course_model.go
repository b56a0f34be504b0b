package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var Weekdays = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

type CourseModel struct {
	ID           uuid.UUID      `gorm:"column:course_id;type:uuid;default:gen_random_uuid();primaryKey" json:"course_id"`
	SchoolID     uuid.UUID      `gorm:"column:course_school_id;type:uuid;not null;index" json:"course_school_id"`
	DepartmentID uuid.UUID      `gorm:"column:course_department_id;type:uuid;not null;index" json:"course_department_id"`
	Name         string         `gorm:"column:course_name;size:150;not null" json:"course_name"`
	Code         string         `gorm:"column:course_code;size:120;not null" json:"course_code"`
	Credits      int            `gorm:"column:course_credits;not null;default:0" json:"course_credits"`
	Description  *string        `gorm:"column:course_description" json:"course_description,omitempty"`
	TeacherID    *uuid.UUID     `gorm:"column:course_teacher_id;type:uuid;index" json:"course_teacher_id,omitempty"`
	WeeklyDays   pq.StringArray `gorm:"column:course_weekly_days;type:text[];not null;default:'{}'" json:"course_weekly_days"`
	CreatedAt    time.Time      `gorm:"column:course_created_at;autoCreateTime" json:"course_created_at"`
	UpdatedAt    time.Time      `gorm:"column:course_updated_at;autoUpdateTime" json:"course_updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:course_deleted_at;index" json:"course_deleted_at,omitempty"`
}

func (CourseModel) TableName() string { return "courses" }
