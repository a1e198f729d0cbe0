package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nanum-market/nanum/internal/service"
	"github.com/nanum-market/nanum/internal/transport"
	"github.com/nanum-market/nanum/internal/util"
	"github.com/nanum-market/nanum/pkg/logging"
)

type SellerHTTP struct {
	Sellers *service.SellerService
}

func (h *SellerHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "seller.signup")

	var req transport.SellerSignupRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "seller_signup_error", "invalid body", err)
	}
	seller, err := h.Sellers.Signup(ctx, service.SellerSignup{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		return httpError(l, "seller_signup_error", err)
	}
	return c.JSON(http.StatusCreated, seller)
}

func (h *SellerHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "seller.login")

	var req transport.SellerLoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "seller_login_error", "invalid body", err)
	}
	seller, pair, err := h.Sellers.Login(ctx, req.Username, req.Password)
	if err != nil {
		return httpError(l, "seller_login_error", err)
	}
	setSessionCookies(c, pair)
	return c.JSON(http.StatusOK, seller)
}

type ProductHTTP struct {
	Catalog *service.CatalogService
}

func (h *ProductHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	page, size, offset := util.Page(c.QueryParam("page"), c.QueryParam("size"))
	products, total, err := h.Catalog.ListProducts(ctx, size, offset)
	if err != nil {
		return httpError(l, "list_products_error", err)
	}
	return c.JSON(http.StatusOK, transport.ProductListResponse{
		Total:    total,
		Page:     page,
		Size:     size,
		Products: products,
	})
}

func (h *ProductHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := h.Catalog.GetProduct(ctx, id)
	if err != nil {
		return httpError(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	sellerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_product_error", "invalid body", err)
	}
	p, err := h.Catalog.CreateProduct(ctx, sellerID, service.ProductInput{
		Name:        req.Name,
		Unit:        req.Unit,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
	})
	if err != nil {
		return httpError(l, "create_product_error", err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	sellerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req transport.ProductPatchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_product_error", "invalid body", err)
	}
	p, err := h.Catalog.UpdateProduct(ctx, sellerID, id, service.ProductPatch{
		Name:        req.Name,
		Unit:        req.Unit,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
	})
	if err != nil {
		return httpError(l, "patch_product_error", err)
	}
	return c.JSON(http.StatusOK, p)
}
