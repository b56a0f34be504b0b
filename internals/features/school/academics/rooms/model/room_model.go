package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoomModel struct {
	ID        uuid.UUID      `gorm:"column:room_id;type:uuid;default:gen_random_uuid();primaryKey" json:"room_id"`
	SchoolID  uuid.UUID      `gorm:"column:room_school_id;type:uuid;not null;index" json:"room_school_id"`
	Name      string         `gorm:"column:room_name;type:text;not null" json:"room_name"`
	Code      *string        `gorm:"column:room_code;size:50" json:"room_code,omitempty"`
	Building  *string        `gorm:"column:room_building;size:100" json:"room_building,omitempty"`
	Floor     *int           `gorm:"column:room_floor" json:"room_floor,omitempty"`
	Capacity  *int           `gorm:"column:room_capacity" json:"room_capacity,omitempty"`
	IsVirtual bool           `gorm:"column:room_is_virtual;not null;default:false" json:"room_is_virtual"`
	IsActive  bool           `gorm:"column:room_is_active;not null;default:true" json:"room_is_active"`
	Features  datatypes.JSON `gorm:"column:room_features;type:jsonb;not null;default:'[]'" json:"room_features"`
	CreatedAt time.Time      `gorm:"column:room_created_at;autoCreateTime" json:"room_created_at"`
	UpdatedAt time.Time      `gorm:"column:room_updated_at;autoUpdateTime" json:"room_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:room_deleted_at;index" json:"room_deleted_at,omitempty"`
}

func (RoomModel) TableName() string { return "rooms" }
