package ledger

import (
	"context"
	"time"

	"finance-ledger/internal/models"
	"finance-ledger/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SnapshotVersion is written into every snapshot.
const SnapshotVersion = 1

// Snapshot is the complete ledger of one user.
type Snapshot struct {
	Version      int                  `json:"version"`
	UserID       uint                 `json:"user_id"`
	Created      time.Time            `json:"created"`
	Accounts     []models.Account     `json:"accounts"`
	Categories   []models.Category    `json:"categories"`
	Transactions []models.Transaction `json:"transactions"`
	Assets       []models.Asset       `json:"assets"`
}

// Snapshot reads the owner's ledger in one consistent read transaction.
func (s *Service) Snapshot(ctx context.Context, userID uint) (*Snapshot, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	snap := &Snapshot{Version: SnapshotVersion, UserID: userID, Created: s.now()}
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Order("id").Find(&snap.Accounts).Error; err != nil {
			return storageErr("snapshot accounts", err)
		}
		if err := tx.Where("user_id = ?", userID).Order("id").Find(&snap.Categories).Error; err != nil {
			return storageErr("snapshot categories", err)
		}
		if err := tx.Where("user_id = ?", userID).Order("date, id").Find(&snap.Transactions).Error; err != nil {
			return storageErr("snapshot transactions", err)
		}
		if err := tx.Where("user_id = ?", userID).Order("id").Find(&snap.Assets).Error; err != nil {
			return storageErr("snapshot assets", err)
		}
		return nil
	})
	if err != nil {
		return nil, atomicErr("snapshot", err)
	}
	return snap, nil
}

// check rejects snapshots that cannot be restored as they are. Balances must
// follow from the snapshot's own history.
func (snap *Snapshot) check() error {
	type catKey struct{ name, typ string }
	seen := make(map[catKey]bool, len(snap.Categories))
	for _, c := range snap.Categories {
		k := catKey{c.Name, c.Type}
		if seen[k] {
			return invalidf("backup has duplicate %s category %q", c.Type, c.Name)
		}
		seen[k] = true
	}

	expected := make(map[uint]decimal.Decimal, len(snap.Accounts))
	for _, a := range snap.Accounts {
		if util.ValidateScale(a.InitialBalance) != nil || util.ValidateScale(a.Balance) != nil {
			return invalidf("backup account %q has too many decimal places", a.Name)
		}
		expected[a.ID] = a.InitialBalance
	}
	for i := range snap.Transactions {
		t := &snap.Transactions[i]
		if !models.IsTransactionType(t.Type) || util.ValidateAmount(t.Amount) != nil {
			return invalidf("backup transaction %d is malformed", t.ID)
		}
		ps, err := postings(t)
		if err != nil {
			return invalidf("backup transaction %d: %v", t.ID, err)
		}
		for _, p := range ps {
			bal, ok := expected[p.AccountID]
			if !ok {
				return invalidf("backup transaction %d references unknown account %d", t.ID, p.AccountID)
			}
			expected[p.AccountID] = bal.Add(p.Delta)
		}
	}
	for _, a := range snap.Accounts {
		if !expected[a.ID].Equal(a.Balance) {
			return invalidf("backup account %q balance %s does not match its history", a.Name, a.Balance)
		}
	}
	return nil
}

func remap(ids map[uint]uint, id *uint) *uint {
	if id == nil {
		return nil
	}
	if v, ok := ids[*id]; ok {
		return &v
	}
	return nil
}

// Restore replaces the owner's ledger with snap in one transaction. Rows get
// fresh ids and references are rewritten to them.
func (s *Service) Restore(ctx context.Context, userID uint, snap *Snapshot) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if snap.UserID != 0 && snap.UserID != userID {
		return invalidf("backup belongs to another user")
	}
	if err := snap.check(); err != nil {
		return err
	}

	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&models.Transaction{}, &models.Asset{}, &models.Category{}, &models.Account{}} {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return storageErr("clear ledger", err)
			}
		}

		catIDs := make(map[uint]uint, len(snap.Categories))
		for _, c := range snap.Categories {
			old := c.ID
			c.ID, c.UserID = 0, userID
			if err := tx.Create(&c).Error; err != nil {
				return storageErr("restore category", err)
			}
			catIDs[old] = c.ID
		}

		accIDs := make(map[uint]uint, len(snap.Accounts))
		for _, a := range snap.Accounts {
			old := a.ID
			a.ID, a.UserID = 0, userID
			if err := tx.Create(&a).Error; err != nil {
				return storageErr("restore account", err)
			}
			accIDs[old] = a.ID
		}

		for _, t := range snap.Transactions {
			t.ID, t.UserID = 0, userID
			t.CategoryID = remap(catIDs, t.CategoryID)
			t.AccountID = remap(accIDs, t.AccountID)
			t.SourceAccountID = remap(accIDs, t.SourceAccountID)
			t.DestinationAccountID = remap(accIDs, t.DestinationAccountID)
			if err := tx.Create(&t).Error; err != nil {
				return storageErr("restore transaction", err)
			}
		}

		for _, a := range snap.Assets {
			a.ID, a.UserID = 0, userID
			if err := tx.Create(&a).Error; err != nil {
				return storageErr("restore asset", err)
			}
		}
		return nil
	})
	return atomicErr("restore", err)
}

// SaveBackup records a written backup file.
func (s *Service) SaveBackup(ctx context.Context, b *models.Backup) error {
	if err := requireUser(b.UserID); err != nil {
		return err
	}
	if err := s.db(ctx).Create(b).Error; err != nil {
		return storageErr("save backup", err)
	}
	return nil
}

// ListBackups returns the owner's backups, newest first.
func (s *Service) ListBackups(ctx context.Context, userID uint) ([]models.Backup, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	list := make([]models.Backup, 0)
	if err := s.db(ctx).Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, storageErr("list backups", err)
	}
	return list, nil
}

// GetBackup loads one of the owner's backups.
func (s *Service) GetBackup(ctx context.Context, userID, id uint) (*models.Backup, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var b models.Backup
	if err := s.db(ctx).Where("id = ? AND user_id = ?", id, userID).First(&b).Error; err != nil {
		return nil, lookupErr("backup", id, err)
	}
	return &b, nil
}

// DeleteBackup removes the backup record.
func (s *Service) DeleteBackup(ctx context.Context, userID, id uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	res := s.db(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Backup{})
	if res.Error != nil {
		return storageErr("delete backup", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundf("backup %d", id)
	}
	return nil
}
