package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/models"
	"github.com/nanum-market/nanum/internal/repo"
	"github.com/nanum-market/nanum/pkg/logging"
)

type OrderService struct {
	Repo    *repo.GormRepo
	Catalog ProductCatalog
	Reward  domain.RewardPolicy
	Events  EventPublisher
	Metrics Recorder
}

// PlaceOrderInput names either a saved delivery (DeliveryID) or new delivery fields.
type PlaceOrderInput struct {
	ProductID  uuid.UUID
	Quantity   int
	DeliveryID *uuid.UUID
	Delivery   *domain.DeliveryFields
}

func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, in PlaceOrderInput) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place", "user_id", userID)

	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", domain.ErrValidation)
	}
	if in.ProductID == uuid.Nil {
		return nil, fmt.Errorf("%w: product_id required", domain.ErrValidation)
	}

	var newDelivery *models.Delivery
	var deliveryID *uuid.UUID
	switch {
	case in.Delivery != nil:
		if err := in.Delivery.Validate(); err != nil {
			return nil, err
		}
		newDelivery = models.NewDelivery(userID, *in.Delivery)
	case in.DeliveryID != nil:
		d, err := s.Repo.GetDelivery(ctx, *in.DeliveryID)
		if err != nil {
			return nil, err
		}
		if d.UserID != userID {
			return nil, fmt.Errorf("%w: delivery %s", domain.ErrNotFound, d.ID)
		}
		deliveryID = &d.ID
	default:
		return nil, fmt.Errorf("%w: delivery or delivery_id required", domain.ErrValidation)
	}

	snap, err := s.Catalog.GetSnapshot(ctx, in.ProductID, in.Quantity)
	if err != nil {
		l.Warn("place_order_error", "product_id", in.ProductID, "error", err)
		return nil, err
	}

	order := &models.Order{
		UserID:         userID,
		ProductID:      snap.ProductID(),
		ProductName:    snap.Name(),
		ProductUnit:    snap.Unit(),
		UnitPrice:      snap.UnitPrice(),
		Quantity:       snap.Quantity(),
		DeliveryStatus: string(domain.StatusCreated),
		DeliveryID:     deliveryID,
	}
	if err := s.Repo.CreateOrder(ctx, order, newDelivery); err != nil {
		l.Error("place_order_error", "status", 500, "error", err)
		return nil, err
	}

	publish(ctx, s.Events, TopicOrderEvents, order.ID.String(), orderEvent("order_placed", order, 0))
	l.Info("place_order_success", "order_id", order.ID, "total", order.TotalAmount)
	return order, nil
}

// Advance lets the seller of the ordered product move the order one step.
func (s *OrderService) Advance(ctx context.Context, sellerID, orderID uuid.UUID, target domain.DeliveryStatus) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	owner, err := s.Catalog.SellerOf(ctx, order.ProductID)
	if err != nil {
		return nil, err
	}
	if owner != sellerID {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
	}
	return s.transition(ctx, order, target)
}

// Cancel is the owner's way out while the order has not shipped.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, order, domain.StatusCancelled)
}

func (s *OrderService) transition(ctx context.Context, order *models.Order, target domain.DeliveryStatus) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "order.transition")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", order.ID.String()),
		attribute.String("order.from", order.DeliveryStatus),
		attribute.String("order.to", string(target)),
	)

	l := logging.FromContext(ctx).With("svc", "order.transition", "order_id", order.ID)
	from := order.Status()

	if err := domain.CheckTransition(from, target); err != nil {
		span.SetStatus(codes.Error, err.Error())
		l.Warn("transition_error", "status", 409, "from", from, "to", target, "error", err)
		return nil, err
	}

	var credit int64
	if target == domain.StatusCompleted && s.Reward != nil {
		credit = s.Reward(order.TotalAmount)
	}

	if err := s.Repo.TransitionOrder(ctx, order, target, credit); err != nil {
		span.SetStatus(codes.Error, err.Error())
		l.Warn("transition_error", "from", from, "to", target, "error", err)
		return nil, err
	}

	if s.Metrics != nil {
		s.Metrics.OrderTransition(from, target)
		if credit > 0 {
			s.Metrics.PointsCredited(credit)
		}
	}
	eventType := "order_advanced"
	if target == domain.StatusCancelled {
		eventType = "order_cancelled"
	}
	publish(ctx, s.Events, TopicOrderEvents, order.ID.String(), orderEvent(eventType, order, credit))
	l.Info("transition_success", "from", from, "to", target, "points_credited", credit)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	return s.ownedOrder(ctx, userID, orderID)
}

// ownedOrder hides other users' orders behind ErrNotFound.
func (s *OrderService) ownedOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
	}
	return order, nil
}

type OrderSummary struct {
	OrderID        uuid.UUID
	UserName       string
	TotalAmount    int64
	DeliveryStatus domain.DeliveryStatus
	ProductName    string
	ProductUnit    string
	ProductCount   int
}

type MyOrders struct {
	Count  int
	Orders []OrderSummary
}

// ListMyOrders returns the user's orders newest first, optionally limited to statuses.
func (s *OrderService) ListMyOrders(ctx context.Context, userID uuid.UUID, statuses []domain.DeliveryStatus) (*MyOrders, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	orders, err := s.Repo.ListOrdersByUser(ctx, userID, statuses)
	if err != nil {
		return nil, err
	}

	out := &MyOrders{Count: len(orders), Orders: make([]OrderSummary, 0, len(orders))}
	for _, o := range orders {
		out.Orders = append(out.Orders, OrderSummary{
			OrderID:        o.ID,
			UserName:       user.Name,
			TotalAmount:    o.TotalAmount,
			DeliveryStatus: o.Status(),
			ProductName:    o.ProductName,
			ProductUnit:    o.ProductUnit,
			ProductCount:   o.Quantity,
		})
	}
	return out, nil
}

func orderEvent(eventType string, o *models.Order, credit int64) OrderEvent {
	return OrderEvent{
		Type:           eventType,
		OrderID:        o.ID,
		UserID:         o.UserID,
		ProductID:      o.ProductID,
		DeliveryStatus: o.DeliveryStatus,
		TotalAmount:    o.TotalAmount,
		PointsCredited: credit,
	}
}
