package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParentModel struct {
	ID           uuid.UUID      `gorm:"column:parent_id;type:uuid;default:gen_random_uuid();primaryKey" json:"parent_id"`
	SchoolID     uuid.UUID      `gorm:"column:parent_school_id;type:uuid;not null;index" json:"parent_school_id"`
	FirstName    string         `gorm:"column:parent_first_name;size:50;not null" json:"parent_first_name"`
	LastName     *string        `gorm:"column:parent_last_name;size:50" json:"parent_last_name,omitempty"`
	PhotoURL     *string        `gorm:"column:parent_photo_url" json:"parent_photo_url,omitempty"`
	Email        *string        `gorm:"column:parent_email;size:255" json:"parent_email,omitempty"`
	Phone        *string        `gorm:"column:parent_phone;size:20" json:"parent_phone,omitempty"`
	Address      *string        `gorm:"column:parent_address" json:"parent_address,omitempty"`
	Relationship string         `gorm:"column:parent_relationship;size:20;not null" json:"parent_relationship"`
	Occupation   *string        `gorm:"column:parent_occupation;size:100" json:"parent_occupation,omitempty"`
	CreatedAt    time.Time      `gorm:"column:parent_created_at;autoCreateTime" json:"parent_created_at"`
	UpdatedAt    time.Time      `gorm:"column:parent_updated_at;autoUpdateTime" json:"parent_updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:parent_deleted_at;index" json:"parent_deleted_at,omitempty"`
}

func (ParentModel) TableName() string { return "parents" }

// StudentParentModel links a student to a parent within one school.
type StudentParentModel struct {
	StudentID uuid.UUID `gorm:"column:student_parent_student_id;type:uuid;primaryKey" json:"student_id"`
	ParentID  uuid.UUID `gorm:"column:student_parent_parent_id;type:uuid;primaryKey;index" json:"parent_id"`
	SchoolID  uuid.UUID `gorm:"column:student_parent_school_id;type:uuid;not null;index" json:"school_id"`
	CreatedAt time.Time `gorm:"column:student_parent_created_at;autoCreateTime" json:"created_at"`
}

func (StudentParentModel) TableName() string { return "student_parents" }
