package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/models"
	"github.com/nanum-market/nanum/internal/service"
)

type LoginRequest struct {
	Code string `json:"code"`
}

type LoginResponse struct {
	Registered  bool          `json:"registered"`
	User        *UserResponse `json:"user,omitempty"`
	SignupToken string        `json:"signup_token,omitempty"`
	SignupExp   *time.Time    `json:"signup_expires_at,omitempty"`
}

type RegisterHostRequest struct {
	SignupToken string `json:"signup_token"`
}

type JoinGroupRequest struct {
	SignupToken string `json:"signup_token"`
	InviteCode  string `json:"invite_code"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	InviteCode  *string   `json:"invite_code,omitempty"`
	UserGroupID uuid.UUID `json:"user_group_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Role:        u.Role,
		InviteCode:  u.InviteCode,
		UserGroupID: u.UserGroupID,
		CreatedAt:   u.CreatedAt,
	}
}

type PointsResponse struct {
	UserGroupID uuid.UUID `json:"user_group_id"`
	Point       int64     `json:"point"`
}

type PlaceOrderRequest struct {
	ProductID  uuid.UUID              `json:"product_id"`
	Quantity   int                    `json:"quantity"`
	DeliveryID *uuid.UUID             `json:"delivery_id,omitempty"`
	Delivery   *domain.DeliveryFields `json:"delivery,omitempty"`
}

type AdvanceOrderRequest struct {
	Status string `json:"status"`
}

type OrderSummaryResponse struct {
	ID             uuid.UUID `json:"id"`
	UserName       string    `json:"user_name"`
	TotalAmount    int64     `json:"total_amount"`
	DeliveryStatus string    `json:"delivery_status"`
	ProductName    string    `json:"product_name"`
	ProductUnit    string    `json:"product_unit"`
	ProductCount   int       `json:"product_count"`
}

type MyOrdersResponse struct {
	Count  int                    `json:"count"`
	Orders []OrderSummaryResponse `json:"orders"`
}

func NewMyOrdersResponse(m *service.MyOrders) MyOrdersResponse {
	out := MyOrdersResponse{Count: m.Count, Orders: make([]OrderSummaryResponse, 0, len(m.Orders))}
	for _, o := range m.Orders {
		out.Orders = append(out.Orders, OrderSummaryResponse{
			ID:             o.OrderID,
			UserName:       o.UserName,
			TotalAmount:    o.TotalAmount,
			DeliveryStatus: string(o.DeliveryStatus),
			ProductName:    o.ProductName,
			ProductUnit:    o.ProductUnit,
			ProductCount:   o.ProductCount,
		})
	}
	return out
}

type ReviewRequest struct {
	Rating  *float64 `json:"rating"`
	Comment string   `json:"comment"`
}

type SearchReviewsResponse struct {
	Total   int64                    `json:"total"`
	Page    int                      `json:"page"`
	Size    int                      `json:"size"`
	Reviews []service.ReviewDocument `json:"reviews"`
}

type SellerSignupRequest struct {
	Username    string         `json:"username"`
	PhoneNumber string         `json:"phone_number"`
	Email       string         `json:"email"`
	Password    string         `json:"password"`
	Address     domain.Address `json:"address"`
}

type SellerLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ProductRequest struct {
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Description string `json:"description"`
}

type ProductPatchRequest struct {
	Name        *string `json:"name"`
	Unit        *string `json:"unit"`
	Price       *int64  `json:"price"`
	Stock       *int    `json:"stock"`
	Description *string `json:"description"`
}

type ProductListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Size     int              `json:"size"`
	Products []models.Product `json:"products"`
}
