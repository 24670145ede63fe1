package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types.
const (
	TypeIncome   = "income"
	TypeExpense  = "expense"
	TypeTransfer = "transfer"
)

// Transaction is a single posting. Income and expense touch AccountID,
// transfers move Amount from SourceAccountID to DestinationAccountID.
// Rows are never updated, only created and deleted.
type Transaction struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	UserID               uint            `gorm:"index;not null" json:"user_id"`
	Amount               decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Type                 string          `gorm:"size:16;index;not null" json:"type"`
	CategoryID           *uint           `gorm:"index" json:"category_id"`
	AccountID            *uint           `gorm:"index" json:"account_id"`
	SourceAccountID      *uint           `gorm:"index" json:"source_account_id"`
	DestinationAccountID *uint           `gorm:"index" json:"destination_account_id"`
	Description          string          `gorm:"type:text" json:"description"`
	Date                 time.Time       `gorm:"index;not null" json:"date"`
	CreatedAt            time.Time       `json:"created_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// IsTransactionType reports whether t is income, expense or transfer.
func IsTransactionType(t string) bool {
	return t == TypeIncome || t == TypeExpense || t == TypeTransfer
}
