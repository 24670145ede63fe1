package ledger

import (
	"context"
	"errors"
	"strings"

	"finance-ledger/internal/models"
	"finance-ledger/internal/util"

	"gorm.io/gorm"
)

// Default categories seeded for every new user.
var (
	DefaultExpenseCategories = []string{"Food", "Transport", "Shopping", "Bills", "Entertainment", "Health", "Other"}
	DefaultIncomeCategories  = []string{"Salary", "Freelance", "Investment", "Gift", "Other"}
)

// CategoryInput creates a category.
type CategoryInput struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func seedCategories(tx *gorm.DB, userID uint) error {
	cats := make([]models.Category, 0, len(DefaultExpenseCategories)+len(DefaultIncomeCategories))
	for _, name := range DefaultExpenseCategories {
		cats = append(cats, models.Category{UserID: userID, Name: name, Type: models.TypeExpense})
	}
	for _, name := range DefaultIncomeCategories {
		cats = append(cats, models.Category{UserID: userID, Name: name, Type: models.TypeIncome})
	}
	if err := tx.Create(&cats).Error; err != nil {
		return storageErr("seed categories", err)
	}
	return nil
}

// ListCategories returns the owner's categories ordered by type then name.
func (s *Service) ListCategories(ctx context.Context, userID uint) ([]models.Category, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	cats := make([]models.Category, 0)
	if err := s.db(ctx).Where("user_id = ?", userID).
		Order("type, name").
		Find(&cats).Error; err != nil {
		return nil, storageErr("list categories", err)
	}
	return cats, nil
}

// CreateCategory adds a category; name and type are unique per owner.
func (s *Service) CreateCategory(ctx context.Context, userID uint, in CategoryInput) (*models.Category, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if err := util.ValidateName(name, 64); err != nil {
		return nil, invalidf("%v", err)
	}
	typ := strings.ToLower(strings.TrimSpace(in.Type))
	if typ != models.TypeIncome && typ != models.TypeExpense {
		return nil, invalidf("category type must be income or expense")
	}

	var n int64
	if err := s.db(ctx).Model(&models.Category{}).
		Where("user_id = ? AND name = ? AND type = ?", userID, name, typ).
		Count(&n).Error; err != nil {
		return nil, storageErr("check category", err)
	}
	if n > 0 {
		return nil, conflictf("category %q already exists", name)
	}

	cat := &models.Category{UserID: userID, Name: name, Type: typ}
	if err := s.db(ctx).Create(cat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictf("category %q already exists", name)
		}
		return nil, storageErr("create category", err)
	}
	return cat, nil
}

// DeleteCategory removes a category and leaves its transactions
// uncategorized. Categories never affect balances.
func (s *Service) DeleteCategory(ctx context.Context, userID, id uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&cat).Error; err != nil {
			return lookupErr("category", id, err)
		}
		if err := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND category_id = ?", userID, id).
			Update("category_id", nil).Error; err != nil {
			return storageErr("uncategorize transactions", err)
		}
		if err := tx.Delete(&cat).Error; err != nil {
			return storageErr("delete category", err)
		}
		return nil
	})
	return atomicErr("delete category", err)
}
