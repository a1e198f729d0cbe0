package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/models"
)

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(r.DB.WithContext(ctx).Create(p).Error, "product")
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err, "product")
	}
	return &p, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// UpdateProduct applies fields to a product owned by sellerID. Another seller's product reads as missing.
func (r *GormRepo) UpdateProduct(ctx context.Context, id, sellerID uuid.UUID, fields map[string]any) (*models.Product, error) {
	db := r.DB.WithContext(ctx)
	res := db.Model(&models.Product{}).Where("id = ? AND seller_id = ?", id, sellerID).Updates(fields)
	if res.Error != nil {
		return nil, translate(res.Error, "product")
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}
	return r.GetProduct(ctx, id)
}
