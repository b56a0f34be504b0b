package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenBlacklist holds HMACs of logged-out access tokens.
type TokenBlacklist struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Token     string         `gorm:"type:text;not null;unique" json:"-"`
	ExpiredAt time.Time      `gorm:"not null;index" json:"expired_at"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TokenBlacklist) TableName() string { return "token_blacklist" }

type RefreshToken struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	TokenHash string     `gorm:"column:token_hash;type:text;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time  `gorm:"column:expires_at;type:timestamptz;not null" json:"expires_at"`
	RevokedAt *time.Time `gorm:"column:revoked_at;type:timestamptz" json:"revoked_at,omitempty"`
	UserAgent *string    `gorm:"column:user_agent" json:"user_agent,omitempty"`
	IP        *string    `gorm:"column:ip" json:"ip,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }
