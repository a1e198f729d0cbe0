package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// All lists every table the service owns, in migration order.
func All() []any {
	return []any{
		&UserGroup{},
		&User{},
		&Seller{},
		&Product{},
		&Delivery{},
		&Order{},
		&Review{},
		&RefreshToken{},
	}
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (g *UserGroup) BeforeCreate(*gorm.DB) error    { ensureID(&g.ID); return nil }
func (u *User) BeforeCreate(*gorm.DB) error         { ensureID(&u.ID); return nil }
func (s *Seller) BeforeCreate(*gorm.DB) error       { ensureID(&s.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error      { ensureID(&p.ID); return nil }
func (d *Delivery) BeforeCreate(*gorm.DB) error     { ensureID(&d.ID); return nil }
func (r *Review) BeforeCreate(*gorm.DB) error       { ensureID(&r.ID); return nil }
func (t *RefreshToken) BeforeCreate(*gorm.DB) error { ensureID(&t.ID); return nil }
