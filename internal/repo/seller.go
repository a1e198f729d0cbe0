package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/models"
)

func (r *GormRepo) CreateSeller(ctx context.Context, s *models.Seller) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if taken, err := exists(tx, &models.Seller{}, "username = ?", s.Username); err != nil {
			return err
		} else if taken {
			return fmt.Errorf("%w: username %s already taken", domain.ErrConflict, s.Username)
		}
		return translate(tx.Create(s).Error, "seller")
	})
}

func (r *GormRepo) GetSellerByUsername(ctx context.Context, username string) (*models.Seller, error) {
	var s models.Seller
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&s).Error; err != nil {
		return nil, translate(err, "seller")
	}
	return &s, nil
}

func (r *GormRepo) GetSellerByID(ctx context.Context, id uuid.UUID) (*models.Seller, error) {
	var s models.Seller
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, translate(err, "seller")
	}
	return &s, nil
}
