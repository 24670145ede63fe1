package ledger

import (
	"context"
	"strings"

	"finance-ledger/internal/models"
	"finance-ledger/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateTransactionInput is the request to record a transaction. Zero ids are
// treated as absent.
type CreateTransactionInput struct {
	Amount               decimal.Decimal `json:"amount"`
	Type                 string          `json:"type"`
	CategoryID           *uint           `json:"category_id"`
	AccountID            *uint           `json:"account_id"`
	SourceAccountID      *uint           `json:"source_account_id"`
	DestinationAccountID *uint           `json:"destination_account_id"`
	Description          string          `json:"description"`
	Date                 string          `json:"date"`
}

// TransactionView is a transaction joined with the names it references.
type TransactionView struct {
	models.Transaction
	CategoryName           *string `json:"category_name"`
	AccountName            *string `json:"account_name"`
	SourceAccountName      *string `json:"source_account_name"`
	DestinationAccountName *string `json:"destination_account_name"`
}

func optionalID(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}

// build validates the input and returns the row to persist.
func (in CreateTransactionInput) build(userID uint, s *Service) (*models.Transaction, error) {
	typ := strings.ToLower(strings.TrimSpace(in.Type))
	if !models.IsTransactionType(typ) {
		return nil, invalidf("type must be income, expense or transfer")
	}
	if err := util.ValidateAmount(in.Amount); err != nil {
		return nil, invalidf("%v", err)
	}

	t := &models.Transaction{
		UserID:      userID,
		Amount:      in.Amount,
		Type:        typ,
		CategoryID:  optionalID(in.CategoryID),
		Description: strings.TrimSpace(in.Description),
		Date:        s.now(),
	}

	switch typ {
	case models.TypeIncome, models.TypeExpense:
		t.AccountID = optionalID(in.AccountID)
		if t.AccountID == nil {
			return nil, invalidf("account_id is required for %s", typ)
		}
	case models.TypeTransfer:
		t.SourceAccountID = optionalID(in.SourceAccountID)
		t.DestinationAccountID = optionalID(in.DestinationAccountID)
		if t.SourceAccountID == nil || t.DestinationAccountID == nil {
			return nil, invalidf("source_account_id and destination_account_id are required for transfer")
		}
		if *t.SourceAccountID == *t.DestinationAccountID {
			return nil, invalidf("source and destination accounts must differ")
		}
	}

	if strings.TrimSpace(in.Date) != "" {
		d, err := util.ParseDate(in.Date)
		if err != nil {
			return nil, invalidf("%v", err)
		}
		t.Date = d
	}
	return t, nil
}

// checkCategory verifies the category belongs to the owner and fits the type.
func checkCategory(tx *gorm.DB, t *models.Transaction) error {
	if t.CategoryID == nil {
		return nil
	}
	var cat models.Category
	if err := tx.Where("id = ? AND user_id = ?", *t.CategoryID, t.UserID).First(&cat).Error; err != nil {
		return lookupErr("category", *t.CategoryID, err)
	}
	if t.Type != models.TypeTransfer && cat.Type != t.Type {
		return invalidf("category %q is an %s category", cat.Name, cat.Type)
	}
	return nil
}

// CreateTransaction records a transaction and posts it to the account
// balances in one database transaction.
func (s *Service) CreateTransaction(ctx context.Context, userID uint, in CreateTransactionInput) (*models.Transaction, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	t, err := in.build(userID, s)
	if err != nil {
		return nil, err
	}

	err = s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCategory(tx, t); err != nil {
			return err
		}
		if err := tx.Create(t).Error; err != nil {
			return storageErr("insert transaction", err)
		}
		return ApplyEffect(tx, t)
	})
	if err != nil {
		return nil, atomicErr("create transaction", err)
	}
	return t, nil
}

// ListTransactions returns the owner's transactions, newest first, with
// category and account names resolved.
func (s *Service) ListTransactions(ctx context.Context, userID uint, f MonthFilter) ([]TransactionView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	q := s.db(ctx).Table("transactions AS t").
		Select(`t.*, c.name AS category_name, a.name AS account_name,
			sa.name AS source_account_name, da.name AS destination_account_name`).
		Joins("LEFT JOIN categories c ON c.id = t.category_id").
		Joins("LEFT JOIN accounts a ON a.id = t.account_id").
		Joins("LEFT JOIN accounts sa ON sa.id = t.source_account_id").
		Joins("LEFT JOIN accounts da ON da.id = t.destination_account_id").
		Where("t.user_id = ?", userID)
	q, err := f.apply(q, "t.date")
	if err != nil {
		return nil, err
	}

	items := make([]TransactionView, 0)
	if err := q.Order("t.date DESC, t.id DESC").Scan(&items).Error; err != nil {
		return nil, storageErr("list transactions", err)
	}
	return items, nil
}

// GetTransaction loads one of the owner's transactions.
func (s *Service) GetTransaction(ctx context.Context, userID, id uint) (*models.Transaction, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var t models.Transaction
	if err := s.db(ctx).Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
		return nil, lookupErr("transaction", id, err)
	}
	return &t, nil
}

// DeleteTransaction reverses the transaction's effect on the balances and
// removes it, in one database transaction.
func (s *Service) DeleteTransaction(ctx context.Context, userID, id uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Transaction
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
			return lookupErr("transaction", id, err)
		}
		if err := ReverseEffect(tx, &t); err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", t.ID, userID).Delete(&models.Transaction{})
		if res.Error != nil {
			return storageErr("delete transaction", res.Error)
		}
		if res.RowsAffected != 1 {
			return notFoundf("transaction %d", id)
		}
		return nil
	})
	return atomicErr("delete transaction", err)
}
