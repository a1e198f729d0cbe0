package service

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/pkg/logging"
)

var tracer = otel.Tracer("github.com/nanum-market/nanum/internal/service")

const (
	TopicUserEvents   = "user_events"
	TopicOrderEvents  = "order_events"
	TopicReviewEvents = "review_events"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, string, string, any) error { return nil }

// Recorder receives domain counters. internal/metrics provides the prometheus one.
type Recorder interface {
	OrderTransition(from, to domain.DeliveryStatus)
	PointsCredited(points int64)
	ReviewSubmitted()
	LoginResult(outcome string)
}

type NopRecorder struct{}

func (NopRecorder) OrderTransition(domain.DeliveryStatus, domain.DeliveryStatus) {}
func (NopRecorder) PointsCredited(int64)                                         {}
func (NopRecorder) ReviewSubmitted()                                             {}
func (NopRecorder) LoginResult(string)                                           {}

// publish runs after the transaction committed; a broker failure is logged and swallowed.
func publish(ctx context.Context, p EventPublisher, topic, key string, event any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("publish_event_error", "topic", topic, "key", key, "error", err)
	}
}

// Identity is a provider-verified person who has not necessarily registered yet.
type Identity struct {
	SubjectID   string
	DisplayName string
}

type UserEvent struct {
	Type        string    `json:"type"`
	UserID      uuid.UUID `json:"userID"`
	UserGroupID uuid.UUID `json:"userGroupID"`
	Role        string    `json:"role"`
}

type OrderEvent struct {
	Type           string    `json:"type"`
	OrderID        uuid.UUID `json:"orderID"`
	UserID         uuid.UUID `json:"userID"`
	ProductID      uuid.UUID `json:"productID"`
	DeliveryStatus string    `json:"deliveryStatus"`
	TotalAmount    int64     `json:"totalAmount"`
	PointsCredited int64     `json:"pointsCredited,omitempty"`
}

type ReviewEvent struct {
	Type      string    `json:"type"`
	ReviewID  uuid.UUID `json:"reviewID"`
	OrderID   uuid.UUID `json:"orderID"`
	ProductID uuid.UUID `json:"productID"`
	Rating    float64   `json:"rating"`
}
