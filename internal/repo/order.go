package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/models"
)

// CreateOrder stores the order and, when given, the new delivery it points at.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order, delivery *models.Delivery) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if delivery != nil {
			if err := tx.Create(delivery).Error; err != nil {
				return translate(err, "delivery")
			}
			order.DeliveryID = &delivery.ID
		}
		return translate(tx.Create(order).Error, "order")
	})
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, translate(err, "order")
	}
	return &order, nil
}

// ListOrdersByUser returns the user's orders newest first. An empty statuses slice means all.
func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uuid.UUID, statuses []domain.DeliveryStatus) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	if len(statuses) > 0 {
		names := make([]string, len(statuses))
		for i, s := range statuses {
			names[i] = string(s)
		}
		q = q.Where("delivery_status IN ?", names)
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// TransitionOrder moves order to the target status if nobody changed it since it was read.
// credit > 0 is added to the owner's group in the same transaction.
func (r *GormRepo) TransitionOrder(ctx context.Context, order *models.Order, to domain.DeliveryStatus, credit int64) error {
	now := time.Now().UTC()

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpVersion(tx, order, map[string]any{
			"delivery_status": string(to),
		}, now); err != nil {
			return err
		}
		if credit > 0 {
			return creditGroup(tx, order.UserID, credit)
		}
		return nil
	})
	if err != nil {
		return err
	}

	order.DeliveryStatus = string(to)
	order.Version++
	order.UpdatedAt = now
	return nil
}

// AttachDelivery stores d and makes it the order's only delivery.
func (r *GormRepo) AttachDelivery(ctx context.Context, order *models.Order, d *models.Delivery) error {
	now := time.Now().UTC()

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(d).Error; err != nil {
			return translate(err, "delivery")
		}
		return bumpVersion(tx, order, map[string]any{"delivery_id": d.ID}, now)
	})
	if err != nil {
		return err
	}

	order.DeliveryID = &d.ID
	order.Version++
	order.UpdatedAt = now
	return nil
}

// bumpVersion is the optimistic write: it only matches the row version the caller read.
func bumpVersion(tx *gorm.DB, order *models.Order, cols map[string]any, now time.Time) error {
	cols["version"] = order.Version + 1
	cols["updated_at"] = now

	res := tx.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		UpdateColumns(cols)
	if res.Error != nil {
		return translate(res.Error, "order")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: order %s was modified concurrently", domain.ErrConflict, order.ID)
	}
	return nil
}
