package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/models"
	"github.com/nanum-market/nanum/internal/repo"
	"github.com/nanum-market/nanum/pkg/logging"
)

// ProductCatalog is what ordering needs from the catalog.
type ProductCatalog interface {
	GetSnapshot(ctx context.Context, productID uuid.UUID, quantity int) (*domain.ProductSnapshot, error)
	SellerOf(ctx context.Context, productID uuid.UUID) (uuid.UUID, error)
}

type CatalogService struct {
	Repo *repo.GormRepo
}

var _ ProductCatalog = (*CatalogService)(nil)

func (s *CatalogService) GetSnapshot(ctx context.Context, productID uuid.UUID, quantity int) (*domain.ProductSnapshot, error) {
	p, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > p.Stock {
		return nil, fmt.Errorf("%w: only %d %s left", domain.ErrValidation, p.Stock, p.Unit)
	}
	snap, err := domain.NewProductSnapshot(p.ID, p.Name, p.Unit, p.Price, quantity)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *CatalogService) SellerOf(ctx context.Context, productID uuid.UUID) (uuid.UUID, error) {
	p, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return uuid.Nil, err
	}
	return p.SellerID, nil
}

type ProductInput struct {
	Name        string
	Unit        string
	Price       int64
	Stock       int
	Description string
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Unit) == "" {
		return fmt.Errorf("%w: name and unit required", domain.ErrValidation)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", domain.ErrValidation)
	}
	if in.Stock < 0 {
		return fmt.Errorf("%w: stock must be >= 0", domain.ErrValidation)
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, sellerID uuid.UUID, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &models.Product{
		SellerID:    sellerID,
		Name:        strings.TrimSpace(in.Name),
		Unit:        strings.TrimSpace(in.Unit),
		Price:       in.Price,
		Stock:       in.Stock,
		Description: in.Description,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("create_product_success", "product_id", p.ID, "seller_id", sellerID)
	return p, nil
}

// ProductPatch holds the fields a seller wants to change; nil means unchanged.
type ProductPatch struct {
	Name        *string
	Unit        *string
	Price       *int64
	Stock       *int
	Description *string
}

func (s *CatalogService) UpdateProduct(ctx context.Context, sellerID, productID uuid.UUID, patch ProductPatch) (*models.Product, error) {
	fields := map[string]any{}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, fmt.Errorf("%w: name must not be blank", domain.ErrValidation)
		}
		fields["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Unit != nil {
		if strings.TrimSpace(*patch.Unit) == "" {
			return nil, fmt.Errorf("%w: unit must not be blank", domain.ErrValidation)
		}
		fields["unit"] = strings.TrimSpace(*patch.Unit)
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, fmt.Errorf("%w: price must be >= 0", domain.ErrValidation)
		}
		fields["price"] = *patch.Price
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return nil, fmt.Errorf("%w: stock must be >= 0", domain.ErrValidation)
		}
		fields["stock"] = *patch.Stock
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}
	return s.Repo.UpdateProduct(ctx, productID, sellerID, fields)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	return s.Repo.ListProducts(ctx, limit, offset)
}
