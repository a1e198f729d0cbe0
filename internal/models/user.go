package models

import (
	"time"

	"github.com/google/uuid"
)

// UserGroup is the shared point account of one host and everyone who joined with the host's code.
type UserGroup struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	Point     int64     `gorm:"not null;check:point >= 0"     json:"point"`
	CreatedAt time.Time `gorm:"not null"                      json:"created_at"`
}

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	UID         string    `gorm:"uniqueIndex;not null"          json:"uid"`
	Name        string    `gorm:"not null"                      json:"name"`
	Role        string    `gorm:"not null"                      json:"role"`
	InviteCode  *string   `gorm:"uniqueIndex;size:16"           json:"invite_code,omitempty"`
	UserGroupID uuid.UUID `gorm:"type:uuid;index;not null"      json:"user_group_id"`
	CreatedAt   time.Time `gorm:"not null"                      json:"created_at"`
}
