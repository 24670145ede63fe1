package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account types accepted on create/update.
const (
	AccountBank   = "bank"
	AccountCash   = "cash"
	AccountCard   = "card"
	AccountWallet = "wallet"
	AccountOther  = "other"
)

// Account is a place money lives. Balance is a stored running total that only
// the balance mutator changes after creation.
type Account struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"index;not null" json:"user_id"`
	Name           string          `gorm:"size:64;not null" json:"name"`
	Type           string          `gorm:"size:16;not null" json:"type"`
	InitialBalance decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"initial_balance"`
	Balance        decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// IsAccountType reports whether t is one of the known account types.
func IsAccountType(t string) bool {
	switch t {
	case AccountBank, AccountCash, AccountCard, AccountWallet, AccountOther:
		return true
	}
	return false
}
