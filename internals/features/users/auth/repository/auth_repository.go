package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authModel "schoolku_backend/internals/features/users/auth/model"
)

func FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*authModel.UserModel, error) {
	var user authModel.UserModel
	if err := db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*authModel.UserModel, error) {
	var user authModel.UserModel
	if err := db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateRefreshToken(ctx context.Context, db *gorm.DB, rt *authModel.RefreshToken) error {
	return db.WithContext(ctx).Create(rt).Error
}

// FindActiveRefreshToken returns an unrevoked, unexpired token row.
func FindActiveRefreshToken(ctx context.Context, db *gorm.DB, hash string) (*authModel.RefreshToken, error) {
	var rt authModel.RefreshToken
	if err := db.WithContext(ctx).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", hash, time.Now().UTC()).
		First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func RevokeRefreshToken(ctx context.Context, db *gorm.DB, hash string) error {
	return db.WithContext(ctx).Model(&authModel.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", time.Now().UTC()).Error
}

// PurgeRefreshTokens removes rows that expired or were revoked before cutoff.
func PurgeRefreshTokens(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM refresh_tokens WHERE expires_at < ? OR revoked_at < ?`, cutoff, cutoff)
	return res.RowsAffected, res.Error
}
