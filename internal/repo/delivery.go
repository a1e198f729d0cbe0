package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/nanum-market/nanum/internal/models"
)

func (r *GormRepo) CreateDelivery(ctx context.Context, d *models.Delivery) error {
	return translate(r.DB.WithContext(ctx).Create(d).Error, "delivery")
}

func (r *GormRepo) GetDelivery(ctx context.Context, id uuid.UUID) (*models.Delivery, error) {
	var d models.Delivery
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, translate(err, "delivery")
	}
	return &d, nil
}

func (r *GormRepo) ListDeliveries(ctx context.Context, userID uuid.UUID) ([]models.Delivery, error) {
	var out []models.Delivery
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
