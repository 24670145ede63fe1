// Package ledger holds the business rules of the finance ledger: posting and
// reversing transactions against account balances, statistics, and the
// catalog of accounts, categories and assets. Every method is scoped to the
// calling user's id.
package ledger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Service runs ledger operations against a gorm store.
type Service struct {
	DB         *gorm.DB
	BcryptCost int

	// now is replaceable in tests
	now func() time.Time
}

// NewService 构造函数
func NewService(db *gorm.DB, bcryptCost int) *Service {
	return &Service{
		DB:         db,
		BcryptCost: bcryptCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

func requireUser(userID uint) error {
	if userID == 0 {
		return ErrUnauthorized
	}
	return nil
}
