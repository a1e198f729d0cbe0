package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/models"
	"github.com/nanum-market/nanum/pkg/tokens"
)

func (r *GormRepo) SaveRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return translate(r.DB.WithContext(ctx).Create(t).Error, "refresh token")
}

// RotateRefreshToken revokes the live token identified by jti and rawToken and stores next.
// A token that is unknown, revoked or expired is reported as ErrNotFound.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, jti, rawToken string, next *models.RefreshToken) error {
	now := time.Now().UTC()

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RefreshToken{}).
			Where("jti = ? AND token_hash = ? AND revoked = ? AND expires_at > ?", jti, tokens.Sha256Hex(rawToken), false, now).
			UpdateColumn("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: refresh token revoked or expired", domain.ErrNotFound)
		}
		return translate(tx.Create(next).Error, "refresh token")
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, rawToken string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokens.Sha256Hex(rawToken)).
		UpdateColumn("revoked", true).Error
}
