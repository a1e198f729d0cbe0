package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nanum-market/nanum/internal/domain"
)

type Seller struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"                   json:"id"`
	Username     string         `gorm:"uniqueIndex;not null"                   json:"username"`
	Email        string         `gorm:"not null"                               json:"email"`
	PasswordHash string         `gorm:"not null"                               json:"-"`
	PhoneNumber  string         `gorm:"not null"                               json:"phone_number"`
	Address      domain.Address `gorm:"embedded;embeddedPrefix:address_"       json:"address"`
	CreatedAt    time.Time      `gorm:"not null"                               json:"created_at"`
}

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"        json:"id"`
	SellerID    uuid.UUID `gorm:"type:uuid;index;not null"    json:"seller_id"`
	Name        string    `gorm:"not null"                    json:"name"`
	Unit        string    `gorm:"not null"                    json:"unit"`
	Price       int64     `gorm:"not null;check:price >= 0"   json:"price"`
	Stock       int       `gorm:"not null;check:stock >= 0"   json:"stock"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
