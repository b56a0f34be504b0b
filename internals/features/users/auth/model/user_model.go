package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"schoolku_backend/internals/constants"
)

const (
	RoleOwner   = constants.RoleOwner
	RoleAdmin   = constants.RoleAdmin
	RoleTeacher = constants.RoleTeacher
	RoleParent  = constants.RoleParent
	RoleStudent = constants.RoleStudent
	RoleUser    = constants.RoleUser
)

type UserModel struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolID   *uuid.UUID     `gorm:"column:school_id;type:uuid;index" json:"school_id,omitempty"`
	FullName   string         `gorm:"column:full_name;size:100;not null" json:"full_name"`
	Email      string         `gorm:"column:email;size:255;not null;uniqueIndex:uq_users_email" json:"email"`
	Password   string         `gorm:"column:password;not null" json:"-"`
	Roles      pq.StringArray `gorm:"column:roles;type:text[];not null;default:'{}'" json:"roles"`
	ActiveRole string         `gorm:"column:active_role;size:20;not null" json:"active_role"`
	IsActive   bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (UserModel) TableName() string { return "users" }

func (u UserModel) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
