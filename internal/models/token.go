package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken stores the sha256 of an issued refresh token, never the token itself.
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Subject   string    `gorm:"index;not null"           json:"subject"`
	Role      string    `gorm:"not null"                 json:"role"`
	TokenHash string    `gorm:"uniqueIndex;not null"     json:"-"`
	JTI       string    `gorm:"uniqueIndex;not null"     json:"jti"`
	ExpiresAt time.Time `gorm:"not null"                 json:"expires_at"`
	Revoked   bool      `gorm:"not null;default:false"   json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}
