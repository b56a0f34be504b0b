package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/users/auth/dto"
	authModel "schoolku_backend/internals/features/users/auth/model"
	authRepo "schoolku_backend/internals/features/users/auth/repository"
	helperAuth "schoolku_backend/internals/helpers/auth"
)

var (
	ErrInvalidRefresh = errors.New("refresh token is invalid or expired")
	ErrUserInactive   = errors.New("account is disabled")
)

type SessionService struct {
	DB     *gorm.DB
	Issuer helperAuth.TokenIssuer
}

func IdentityOf(u *authModel.UserModel) helperAuth.Identity {
	return helperAuth.Identity{
		UserID:   u.ID,
		SchoolID: u.SchoolID,
		Name:     u.FullName,
		Role:     u.ActiveRole,
		Roles:    append([]string(nil), u.Roles...),
	}
}

// IssueAccess signs an access token only (used after a role switch).
func (s SessionService) IssueAccess(u *authModel.UserModel) (*dto.SessionResponse, error) {
	access, exp, err := s.Issuer.IssueAccess(IdentityOf(u))
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{AccessToken: access, AccessExpiresAt: exp, User: dto.FromUserModel(u)}, nil
}

// Issue signs an access/refresh pair and stores the refresh token hash.
func (s SessionService) Issue(ctx context.Context, u *authModel.UserModel, userAgent, ip string) (*dto.SessionResponse, error) {
	resp, err := s.IssueAccess(u)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.Issuer.IssueRefresh(IdentityOf(u))
	if err != nil {
		return nil, err
	}
	if err := authRepo.CreateRefreshToken(ctx, s.DB, &authModel.RefreshToken{
		UserID:    u.ID,
		TokenHash: helperAuth.HashToken(refresh, s.Issuer.RefreshSecret),
		ExpiresAt: refreshExp,
		UserAgent: strptr(userAgent),
		IP:        strptr(ip),
	}); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	resp.RefreshToken = refresh
	resp.RefreshExpiresAt = &refreshExp
	return resp, nil
}

// Rotate exchanges a refresh token for a new pair and revokes the old one.
func (s SessionService) Rotate(ctx context.Context, rawRefresh, userAgent, ip string) (*dto.SessionResponse, error) {
	claims, err := s.Issuer.ParseRefresh(rawRefresh)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	hash := helperAuth.HashToken(rawRefresh, s.Issuer.RefreshSecret)
	rt, err := authRepo.FindActiveRefreshToken(ctx, s.DB, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	uid, _ := claims.UserID()
	if rt.UserID != uid {
		return nil, ErrInvalidRefresh
	}

	user, err := authRepo.FindUserByID(ctx, s.DB, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if err := authRepo.RevokeRefreshToken(ctx, s.DB, hash); err != nil {
		log.Printf("[ERROR] revoke refresh token: %v", err)
	}
	return s.Issue(ctx, user, userAgent, ip)
}

// Revoke marks a refresh token as used; unknown tokens are ignored.
func (s SessionService) Revoke(ctx context.Context, rawRefresh string) error {
	if strings.TrimSpace(rawRefresh) == "" {
		return nil
	}
	return authRepo.RevokeRefreshToken(ctx, s.DB, helperAuth.HashToken(rawRefresh, s.Issuer.RefreshSecret))
}

// UserFromAccess loads the user the access token was issued to.
func (s SessionService) UserFromAccess(ctx context.Context, userID uuid.UUID) (*authModel.UserModel, error) {
	return authRepo.FindUserByID(ctx, s.DB, userID)
}

func strptr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
