package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// ProductSnapshot is the price information copied into an order when it is placed.
// Fields are unexported so a snapshot cannot change once built.
type ProductSnapshot struct {
	productID uuid.UUID
	name      string
	unit      string
	unitPrice int64
	quantity  int
}

func NewProductSnapshot(productID uuid.UUID, name, unit string, unitPrice int64, quantity int) (ProductSnapshot, error) {
	if productID == uuid.Nil {
		return ProductSnapshot{}, fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(unit) == "" {
		return ProductSnapshot{}, fmt.Errorf("%w: product name and unit required", ErrValidation)
	}
	if unitPrice < 0 {
		return ProductSnapshot{}, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if quantity <= 0 {
		return ProductSnapshot{}, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}
	if unitPrice > math.MaxInt64/int64(quantity) {
		return ProductSnapshot{}, fmt.Errorf("%w: order total out of range", ErrValidation)
	}
	return ProductSnapshot{
		productID: productID,
		name:      name,
		unit:      unit,
		unitPrice: unitPrice,
		quantity:  quantity,
	}, nil
}

func (s ProductSnapshot) ProductID() uuid.UUID { return s.productID }
func (s ProductSnapshot) Name() string         { return s.name }
func (s ProductSnapshot) Unit() string         { return s.unit }
func (s ProductSnapshot) UnitPrice() int64     { return s.unitPrice }
func (s ProductSnapshot) Quantity() int        { return s.quantity }

func (s ProductSnapshot) Total() int64 {
	return OrderTotal(s.unitPrice, s.quantity)
}

func OrderTotal(unitPrice int64, quantity int) int64 {
	return unitPrice * int64(quantity)
}
