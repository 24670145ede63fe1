package ledger

import (
	"context"
	"strings"

	"finance-ledger/internal/models"
	"finance-ledger/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountInput creates an account. Balance is the opening balance.
type AccountInput struct {
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Balance decimal.Decimal `json:"balance"`
}

// AccountUpdate renames or retypes an account. The balance is not editable:
// it only moves through transactions.
type AccountUpdate struct {
	Name *string `json:"name"`
	Type *string `json:"type"`
}

func normalizeAccountType(t string) (string, error) {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return models.AccountOther, nil
	}
	if !models.IsAccountType(t) {
		return "", invalidf("account type must be one of bank, cash, card, wallet, other")
	}
	return t, nil
}

// ListAccounts returns the owner's accounts, newest first.
func (s *Service) ListAccounts(ctx context.Context, userID uint) ([]models.Account, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	accounts := make([]models.Account, 0)
	if err := s.db(ctx).Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&accounts).Error; err != nil {
		return nil, storageErr("list accounts", err)
	}
	return accounts, nil
}

// GetAccount loads one of the owner's accounts.
func (s *Service) GetAccount(ctx context.Context, userID, id uint) (*models.Account, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var acc models.Account
	if err := s.db(ctx).Where("id = ? AND user_id = ?", id, userID).First(&acc).Error; err != nil {
		return nil, lookupErr("account", id, err)
	}
	return &acc, nil
}

// CreateAccount opens an account with its opening balance.
func (s *Service) CreateAccount(ctx context.Context, userID uint, in AccountInput) (*models.Account, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if err := util.ValidateName(name, 64); err != nil {
		return nil, invalidf("%v", err)
	}
	typ, err := normalizeAccountType(in.Type)
	if err != nil {
		return nil, err
	}
	if err := util.ValidateScale(in.Balance); err != nil {
		return nil, invalidf("balance: %v", err)
	}

	acc := &models.Account{
		UserID:         userID,
		Name:           name,
		Type:           typ,
		InitialBalance: in.Balance,
		Balance:        in.Balance,
	}
	if err := s.db(ctx).Create(acc).Error; err != nil {
		return nil, storageErr("create account", err)
	}
	return acc, nil
}

// UpdateAccount changes the name and/or type of an account.
func (s *Service) UpdateAccount(ctx context.Context, userID, id uint, in AccountUpdate) (*models.Account, error) {
	acc, err := s.GetAccount(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := util.ValidateName(name, 64); err != nil {
			return nil, invalidf("%v", err)
		}
		updates["name"] = name
		acc.Name = name
	}
	if in.Type != nil {
		typ, err := normalizeAccountType(*in.Type)
		if err != nil {
			return nil, err
		}
		updates["type"] = typ
		acc.Type = typ
	}
	if len(updates) == 0 {
		return acc, nil
	}

	if err := s.db(ctx).Model(&models.Account{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates).Error; err != nil {
		return nil, storageErr("update account", err)
	}
	return acc, nil
}

// referencing selects transactions that touch the account.
func referencing(q *gorm.DB, userID, accountID uint) *gorm.DB {
	return q.Where("user_id = ? AND (account_id = ? OR source_account_id = ? OR destination_account_id = ?)",
		userID, accountID, accountID, accountID)
}

// DeleteAccount removes an account that no transaction references. Accounts
// with history must have their transactions deleted first, so balances of the
// other side of a transfer are never left unexplained.
func (s *Service) DeleteAccount(ctx context.Context, userID, id uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		var acc models.Account
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&acc).Error; err != nil {
			return lookupErr("account", id, err)
		}

		var n int64
		if err := referencing(tx.Model(&models.Transaction{}), userID, id).Count(&n).Error; err != nil {
			return storageErr("count transactions", err)
		}
		if n > 0 {
			return conflictf("account %q has %d transactions", acc.Name, n)
		}

		if err := tx.Delete(&acc).Error; err != nil {
			return storageErr("delete account", err)
		}
		return nil
	})
	return atomicErr("delete account", err)
}

// Reconciliation compares the stored balance with the one implied by the
// opening balance and the transaction history.
type Reconciliation struct {
	AccountID  uint            `json:"account_id"`
	Stored     decimal.Decimal `json:"stored"`
	Expected   decimal.Decimal `json:"expected"`
	Consistent bool            `json:"consistent"`
}

// Reconcile recomputes an account balance from its history.
func (s *Service) Reconcile(ctx context.Context, userID, id uint) (*Reconciliation, error) {
	acc, err := s.GetAccount(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	var history []models.Transaction
	if err := referencing(s.db(ctx), userID, id).Find(&history).Error; err != nil {
		return nil, storageErr("load history", err)
	}

	expected := acc.InitialBalance
	for i := range history {
		ps, err := postings(&history[i])
		if err != nil {
			return nil, err
		}
		for _, p := range ps {
			if p.AccountID == id {
				expected = expected.Add(p.Delta)
			}
		}
	}

	return &Reconciliation{
		AccountID:  id,
		Stored:     acc.Balance,
		Expected:   expected,
		Consistent: acc.Balance.Equal(expected),
	}, nil
}
