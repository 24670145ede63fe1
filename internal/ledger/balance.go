package ledger

import (
	"sort"

	"finance-ledger/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// posting is the change a transaction makes to one account balance.
type posting struct {
	AccountID uint
	Delta     decimal.Decimal
}

// postings returns the balance changes implied by t, ordered by account id so
// that concurrent writers always lock accounts in the same order.
func postings(t *models.Transaction) ([]posting, error) {
	var out []posting
	switch t.Type {
	case models.TypeIncome, models.TypeExpense:
		if t.AccountID == nil {
			return nil, invalidf("account_id is required for %s", t.Type)
		}
		delta := t.Amount
		if t.Type == models.TypeExpense {
			delta = delta.Neg()
		}
		out = append(out, posting{AccountID: *t.AccountID, Delta: delta})
	case models.TypeTransfer:
		if t.SourceAccountID == nil || t.DestinationAccountID == nil {
			return nil, invalidf("source_account_id and destination_account_id are required for transfer")
		}
		if *t.SourceAccountID == *t.DestinationAccountID {
			return nil, invalidf("source and destination accounts must differ")
		}
		out = append(out,
			posting{AccountID: *t.SourceAccountID, Delta: t.Amount.Neg()},
			posting{AccountID: *t.DestinationAccountID, Delta: t.Amount},
		)
	default:
		// unknown types are rejected before they reach the mutator
		return nil, nil
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}

// ApplyEffect posts t to the balances of the accounts it references. tx must
// be the same gorm transaction that writes the transaction row.
func ApplyEffect(tx *gorm.DB, t *models.Transaction) error {
	ps, err := postings(t)
	if err != nil {
		return err
	}
	return post(tx, t.UserID, ps, false)
}

// ReverseEffect undoes exactly what ApplyEffect did for t, using the amount and
// account ids recorded on t, relative to whatever the balances are now.
func ReverseEffect(tx *gorm.DB, t *models.Transaction) error {
	ps, err := postings(t)
	if err != nil {
		return err
	}
	return post(tx, t.UserID, ps, true)
}

func post(tx *gorm.DB, userID uint, ps []posting, reverse bool) error {
	for _, p := range ps {
		delta := p.Delta
		if reverse {
			delta = delta.Neg()
		}
		if err := adjustBalance(tx, userID, p.AccountID, delta); err != nil {
			return err
		}
	}
	return nil
}

// adjustBalance adds delta to one account owned by userID. The row is locked
// for the rest of the transaction (FOR UPDATE on postgres; sqlite already
// holds the database write lock).
func adjustBalance(tx *gorm.DB, userID, accountID uint, delta decimal.Decimal) error {
	var acc models.Account
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", accountID, userID).
		First(&acc).Error
	if err != nil {
		return lookupErr("account", accountID, err)
	}

	res := tx.Model(&models.Account{}).
		Where("id = ? AND user_id = ?", acc.ID, userID).
		Update("balance", acc.Balance.Add(delta))
	if res.Error != nil {
		return storageErr("update balance", res.Error)
	}
	if res.RowsAffected != 1 {
		return notFoundf("account %d", accountID)
	}
	return nil
}
