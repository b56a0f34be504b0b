package helper

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Blacklist stores HMACs of logged-out access tokens in token_blacklist.
type Blacklist struct {
	DB     *gorm.DB
	Secret string
}

func (b Blacklist) Add(ctx context.Context, rawAccessToken string, expiresAt time.Time) error {
	if strings.TrimSpace(rawAccessToken) == "" {
		return nil
	}
	return b.DB.WithContext(ctx).Exec(`
		INSERT INTO token_blacklist (token, expired_at, created_at)
		VALUES (?, ?, NOW())
		ON CONFLICT (token) DO UPDATE
		SET expired_at = EXCLUDED.expired_at,
		    deleted_at = NULL
	`, HashToken(rawAccessToken, b.Secret), expiresAt).Error
}

func (b Blacklist) IsBlacklisted(ctx context.Context, rawAccessToken string) (bool, error) {
	if strings.TrimSpace(rawAccessToken) == "" {
		return false, nil
	}
	var exists bool
	err := b.DB.WithContext(ctx).Raw(`
		SELECT EXISTS (
		  SELECT 1 FROM token_blacklist
		  WHERE token = ? AND deleted_at IS NULL AND expired_at > NOW()
		)
	`, HashToken(rawAccessToken, b.Secret)).Scan(&exists).Error
	return exists, err
}

// PurgeExpired hard-deletes entries whose token has expired anyway.
func PurgeExpired(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM token_blacklist WHERE expired_at <= NOW()`)
	return res.RowsAffected, res.Error
}
