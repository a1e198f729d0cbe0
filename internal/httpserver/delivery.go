package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/service"
	"github.com/nanum-market/nanum/internal/transport"
	"github.com/nanum-market/nanum/internal/util"
	"github.com/nanum-market/nanum/pkg/logging"
)

type DeliveryHTTP struct {
	Deliveries *service.DeliveryService
}

func (h *DeliveryHTTP) Save(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delivery.save")

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req domain.DeliveryFields
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "save_delivery_error", "invalid body", err)
	}
	d, err := h.Deliveries.Save(ctx, userID, req)
	if err != nil {
		return httpError(l, "save_delivery_error", err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *DeliveryHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delivery.list")

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	list, err := h.Deliveries.List(ctx, userID)
	if err != nil {
		return httpError(l, "list_deliveries_error", err)
	}
	return c.JSON(http.StatusOK, list)
}

type ReviewHTTP struct {
	Reviews *service.ReviewService
}

func (h *ReviewHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.search")

	page, size, from := util.Page(c.QueryParam("page"), c.QueryParam("size"))
	total, docs, err := h.Reviews.Search(ctx, c.QueryParam("q"), from, size)
	if err != nil {
		return httpError(l, "search_reviews_error", err)
	}
	return c.JSON(http.StatusOK, transport.SearchReviewsResponse{
		Total:   total,
		Page:    page,
		Size:    size,
		Reviews: docs,
	})
}
