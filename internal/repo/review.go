package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/models"
)

// CreateReview stores the single review of an order.
func (r *GormRepo) CreateReview(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if taken, err := exists(tx, &models.Review{}, "order_id = ?", review.OrderID); err != nil {
			return err
		} else if taken {
			return fmt.Errorf("%w: order %s already reviewed", domain.ErrConflict, review.OrderID)
		}
		return translate(tx.Create(review).Error, "review")
	})
}

func (r *GormRepo) GetReviewByOrder(ctx context.Context, orderID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).First(&review).Error; err != nil {
		return nil, translate(err, "review")
	}
	return &review, nil
}
