package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset is valued on its own and only counts towards net worth.
type Asset struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"index;not null" json:"user_id"`
	Name      string          `gorm:"size:64;not null" json:"name"`
	Value     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"value"`
	Type      string          `gorm:"size:32;not null;default:other" json:"type"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
