package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/models"
	"github.com/nanum-market/nanum/internal/repo"
	"github.com/nanum-market/nanum/pkg/logging"
)

type DeliveryService struct {
	Repo *repo.GormRepo
}

func (s *DeliveryService) Save(ctx context.Context, userID uuid.UUID, f domain.DeliveryFields) (*models.Delivery, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	d := models.NewDelivery(userID, f)
	if err := s.Repo.CreateDelivery(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DeliveryService) List(ctx context.Context, userID uuid.UUID) ([]models.Delivery, error) {
	return s.Repo.ListDeliveries(ctx, userID)
}

// Attach gives the order a new delivery, replacing whatever it pointed at before.
func (s *DeliveryService) Attach(ctx context.Context, userID, orderID uuid.UUID, f domain.DeliveryFields) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "delivery.attach", "order_id", orderID)

	if err := f.Validate(); err != nil {
		return nil, err
	}
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
	}
	if !order.Status().Editable() {
		return nil, fmt.Errorf("%w: delivery cannot change once the order is %s", domain.ErrPrecondition, order.DeliveryStatus)
	}

	d := models.NewDelivery(userID, f)
	if err := s.Repo.AttachDelivery(ctx, order, d); err != nil {
		l.Warn("attach_delivery_error", "error", err)
		return nil, err
	}
	l.Info("attach_delivery_success", "delivery_id", d.ID)
	return order, nil
}
