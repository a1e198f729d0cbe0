package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nanum-market/nanum/internal/domain"
)

// Order keeps a copy of the product name, unit and price taken when the order was placed.
type Order struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"           json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;index;not null"       json:"user_id"`
	ProductID      uuid.UUID  `gorm:"type:uuid;index;not null"       json:"product_id"`
	ProductName    string     `gorm:"not null"                       json:"product_name"`
	ProductUnit    string     `gorm:"not null"                       json:"product_unit"`
	UnitPrice      int64      `gorm:"not null"                       json:"unit_price"`
	Quantity       int        `gorm:"not null;check:quantity > 0"    json:"quantity"`
	TotalAmount    int64      `gorm:"not null"                       json:"total_amount"`
	DeliveryStatus string     `gorm:"index;not null"                 json:"delivery_status"`
	DeliveryID     *uuid.UUID `gorm:"type:uuid"                      json:"delivery_id,omitempty"`
	Version        int64      `gorm:"not null"                       json:"version"`
	CreatedAt      time.Time  `gorm:"index"                          json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	if o.Version == 0 {
		o.Version = 1
	}
	return nil
}

// BeforeSave derives the total from the snapshot; it is never written directly.
func (o *Order) BeforeSave(*gorm.DB) error {
	o.TotalAmount = domain.OrderTotal(o.UnitPrice, o.Quantity)
	return nil
}

func (o *Order) Status() domain.DeliveryStatus {
	return domain.DeliveryStatus(o.DeliveryStatus)
}

type Delivery struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"              json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;index;not null"          json:"user_id"`
	Receiver    string         `gorm:"not null"                          json:"receiver"`
	Nickname    string         `gorm:"not null"                          json:"nickname"`
	PhoneNumber string         `gorm:"not null"                          json:"phone_number"`
	Address     domain.Address `gorm:"embedded;embeddedPrefix:address_"  json:"address"`
	CreatedAt   time.Time      `json:"created_at"`
}

func NewDelivery(userID uuid.UUID, f domain.DeliveryFields) *Delivery {
	return &Delivery{
		UserID:      userID,
		Receiver:    f.Receiver,
		Nickname:    f.Nickname,
		PhoneNumber: f.PhoneNumber,
		Address:     f.Address,
	}
}

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"        json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;uniqueIndex"       json:"order_id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"    json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"    json:"product_id"`
	Rating    float64   `gorm:"not null"                    json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
