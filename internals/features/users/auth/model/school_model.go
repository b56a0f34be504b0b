package model

import (
	"time"

	"github.com/google/uuid"
)

// SchoolModel is the tenant every school resource is scoped to.
type SchoolModel struct {
	ID        uuid.UUID `gorm:"column:school_id;type:uuid;default:gen_random_uuid();primaryKey" json:"school_id"`
	Name      string    `gorm:"column:school_name;size:150;not null" json:"school_name"`
	Slug      string    `gorm:"column:school_slug;size:160;not null;uniqueIndex:uq_schools_slug" json:"school_slug"`
	CreatedAt time.Time `gorm:"column:school_created_at;autoCreateTime" json:"school_created_at"`
	UpdatedAt time.Time `gorm:"column:school_updated_at;autoUpdateTime" json:"school_updated_at"`
}

func (SchoolModel) TableName() string { return "schools" }
