package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nanum-market/nanum/internal/domain"
	middleware "github.com/nanum-market/nanum/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler     *AuthHTTP
	OrderHandler    *OrderHTTP
	DeliveryHandler *DeliveryHTTP
	ReviewHandler   *ReviewHTTP
	SellerHandler   *SellerHTTP
	ProductHandler  *ProductHTTP

	JWTSecret []byte
	Refresher middleware.Refresher

	// Ready reports whether dependencies (the database) answer.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.Refresher)
	member := authMW.RequireRole(string(domain.RoleHost), string(domain.RoleParticipant))
	seller := authMW.RequireRole(string(domain.RoleSeller))

	auth := e.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.LogOut)

	users := e.Group("/users")
	users.POST("/host", d.AuthHandler.RegisterHost)
	users.POST("/join", d.AuthHandler.JoinGroup)
	users.GET("/me", d.AuthHandler.Me, member)
	users.GET("/me/points", d.AuthHandler.Points, member)

	orders := e.Group("/orders")
	orders.POST("", d.OrderHandler.PlaceOrder, member)
	orders.GET("", d.OrderHandler.ListMyOrders, member)
	orders.GET("/:id", d.OrderHandler.GetOrder, member)
	orders.POST("/:id/cancel", d.OrderHandler.CancelOrder, member)
	orders.PUT("/:id/delivery", d.OrderHandler.AttachDelivery, member)
	orders.POST("/:id/review", d.OrderHandler.SubmitReview, member)
	orders.PATCH("/:id/status", d.OrderHandler.AdvanceOrder, seller)

	deliveries := e.Group("/deliveries", member)
	deliveries.POST("", d.DeliveryHandler.Save)
	deliveries.GET("", d.DeliveryHandler.List)

	e.GET("/reviews/search", d.ReviewHandler.Search)

	sellers := e.Group("/sellers")
	sellers.POST("/signup", d.SellerHandler.Signup)
	sellers.POST("/login", d.SellerHandler.Login)

	products := e.Group("/products")
	products.GET("", d.ProductHandler.List)
	products.GET("/:id", d.ProductHandler.Get)
	products.POST("", d.ProductHandler.Create, seller)
	products.PATCH("/:id", d.ProductHandler.Patch, seller)
}
