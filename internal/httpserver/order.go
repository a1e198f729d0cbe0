package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/service"
	"github.com/nanum-market/nanum/internal/transport"
	"github.com/nanum-market/nanum/pkg/logging"
)

type OrderHTTP struct {
	Orders     *service.OrderService
	Deliveries *service.DeliveryService
	Reviews    *service.ReviewService
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place_order")

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "place_order_error", "invalid body", err)
	}

	order, err := h.Orders.PlaceOrder(ctx, userID, service.PlaceOrderInput{
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		DeliveryID: req.DeliveryID,
		Delivery:   req.Delivery,
	})
	if err != nil {
		return httpError(l, "place_order_error", err)
	}
	l.Info("place_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

// ListMyOrders accepts ?status=CREATED,PROCESSING; no status means every order.
func (h *OrderHTTP) ListMyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_my_orders")

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var statuses []domain.DeliveryStatus
	for _, raw := range strings.Split(c.QueryParam("status"), ",") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		st, err := domain.ParseDeliveryStatus(raw)
		if err != nil {
			return httpError(l, "list_orders_error", err)
		}
		statuses = append(statuses, st)
	}

	res, err := h.Orders.ListMyOrders(ctx, userID, statuses)
	if err != nil {
		return httpError(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewMyOrdersResponse(res))
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	order, err := h.Orders.GetOrder(ctx, userID, orderID)
	if err != nil {
		return httpError(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel_order")

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	order, err := h.Orders.Cancel(ctx, userID, orderID)
	if err != nil {
		return httpError(l, "cancel_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

// AdvanceOrder is called by the seller of the ordered product.
func (h *OrderHTTP) AdvanceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.advance_order")

	sellerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	var req transport.AdvanceOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "advance_order_error", "invalid body", err)
	}
	target, err := domain.ParseDeliveryStatus(req.Status)
	if err != nil {
		return httpError(l, "advance_order_error", err)
	}

	order, err := h.Orders.Advance(ctx, sellerID, orderID, target)
	if err != nil {
		return httpError(l, "advance_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) AttachDelivery(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.attach_delivery")

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	var req domain.DeliveryFields
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "attach_delivery_error", "invalid body", err)
	}

	order, err := h.Deliveries.Attach(ctx, userID, orderID, req)
	if err != nil {
		return httpError(l, "attach_delivery_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) SubmitReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.submit_review")

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	var req transport.ReviewRequest
	if err := c.Bind(&req); err != nil || req.Rating == nil {
		return badRequest(l, "submit_review_error", "rating required", err)
	}

	review, err := h.Reviews.Submit(ctx, userID, orderID, *req.Rating, req.Comment)
	if err != nil {
		return httpError(l, "submit_review_error", err)
	}
	return c.JSON(http.StatusCreated, review)
}
