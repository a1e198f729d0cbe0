package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/models"
	"github.com/nanum-market/nanum/internal/repo"
	"github.com/nanum-market/nanum/pkg/logging"
)

// ReviewIndex is the search side of reviews. internal/es implements it.
type ReviewIndex interface {
	IndexReview(ctx context.Context, doc ReviewDocument) error
	SearchReviews(ctx context.Context, query string, from, size int) (int64, []ReviewDocument, error)
}

type ReviewDocument struct {
	ID          string  `json:"id"`
	OrderID     string  `json:"order_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Rating      float64 `json:"rating"`
	Comment     string  `json:"comment"`
	CreatedAt   string  `json:"created_at"`
}

type ReviewService struct {
	Repo    *repo.GormRepo
	Index   ReviewIndex
	Events  EventPublisher
	Metrics Recorder
}

func (s *ReviewService) Submit(ctx context.Context, userID, orderID uuid.UUID, rating float64, comment string) (*models.Review, error) {
	l := logging.FromContext(ctx).With("svc", "review.submit", "order_id", orderID)

	if err := domain.ValidateReview(rating, comment); err != nil {
		return nil, err
	}
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
	}
	if order.Status() != domain.StatusCompleted {
		return nil, fmt.Errorf("%w: order is %s, reviews open once it is %s", domain.ErrPrecondition, order.DeliveryStatus, domain.StatusCompleted)
	}

	review := &models.Review{
		OrderID:   order.ID,
		UserID:    userID,
		ProductID: order.ProductID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.Repo.CreateReview(ctx, review); err != nil {
		l.Warn("submit_review_error", "error", err)
		return nil, err
	}

	if s.Index != nil {
		doc := ReviewDocument{
			ID:          review.ID.String(),
			OrderID:     order.ID.String(),
			ProductID:   order.ProductID.String(),
			ProductName: order.ProductName,
			Rating:      review.Rating,
			Comment:     review.Comment,
			CreatedAt:   review.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := s.Index.IndexReview(ctx, doc); err != nil {
			l.Error("index_review_error", "review_id", review.ID, "error", err)
		}
	}
	if s.Metrics != nil {
		s.Metrics.ReviewSubmitted()
	}
	publish(ctx, s.Events, TopicReviewEvents, review.ID.String(), ReviewEvent{
		Type:      "review_submitted",
		ReviewID:  review.ID,
		OrderID:   order.ID,
		ProductID: order.ProductID,
		Rating:    review.Rating,
	})
	l.Info("submit_review_success", "review_id", review.ID)
	return review, nil
}

func (s *ReviewService) Search(ctx context.Context, query string, from, size int) (int64, []ReviewDocument, error) {
	if s.Index == nil {
		return 0, []ReviewDocument{}, nil
	}
	return s.Index.SearchReviews(ctx, query, from, size)
}
