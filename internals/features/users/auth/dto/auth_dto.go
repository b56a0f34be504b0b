package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	authModel "schoolku_backend/internals/features/users/auth/model"
)

type RegisterRequest struct {
	FullName   string `json:"full_name" validate:"required,min=3,max=100"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	SchoolName string `json:"school_name" validate:"omitempty,min=3,max=150"`
}

func (r *RegisterRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.SchoolName = strings.TrimSpace(r.SchoolName)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type SwitchRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=owner admin teacher parent student user"`
}

type UserResponse struct {
	ID         uuid.UUID  `json:"id"`
	SchoolID   *uuid.UUID `json:"school_id,omitempty"`
	FullName   string     `json:"full_name"`
	Email      string     `json:"email"`
	Roles      []string   `json:"roles"`
	ActiveRole string     `json:"active_role"`
}

func FromUserModel(u *authModel.UserModel) UserResponse {
	roles := []string(u.Roles)
	if roles == nil {
		roles = []string{}
	}
	return UserResponse{
		ID:         u.ID,
		SchoolID:   u.SchoolID,
		FullName:   u.FullName,
		Email:      u.Email,
		Roles:      roles,
		ActiveRole: u.ActiveRole,
	}
}

type SessionResponse struct {
	AccessToken      string       `json:"access_token"`
	AccessExpiresAt  time.Time    `json:"access_expires_at"`
	RefreshToken     string       `json:"refresh_token,omitempty"`
	RefreshExpiresAt *time.Time   `json:"refresh_expires_at,omitempty"`
	User             UserResponse `json:"user"`
}
