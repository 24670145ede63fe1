package ledger

import (
	"context"
	"errors"
	"testing"

	"finance-ledger/internal/models"
)

func TestAccountLifecycle(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	u := newUser(t, s, "alice")

	acc, err := s.CreateAccount(ctx, u.ID, AccountInput{Name: " Wallet ", Balance: dec("20")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if acc.Name != "Wallet" || acc.Type != models.AccountOther {
		t.Errorf("account = %+v", acc)
	}
	if !acc.InitialBalance.Equal(dec("20")) || !acc.Balance.Equal(dec("20")) {
		t.Errorf("balances = %s/%s, want 20/20", acc.InitialBalance, acc.Balance)
	}

	if _, err := s.CreateAccount(ctx, u.ID, AccountInput{Name: "X", Type: "piggy"}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad type error = %v, want ErrValidation", err)
	}
	if _, err := s.CreateAccount(ctx, u.ID, AccountInput{Name: "  "}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty name error = %v, want ErrValidation", err)
	}
	if _, err := s.CreateAccount(ctx, u.ID, AccountInput{Name: "X", Balance: dec("10.00005")}); !errors.Is(err, ErrValidation) {
		t.Errorf("opening balance scale error = %v, want ErrValidation", err)
	}

	name, typ := "Pocket", "cash"
	updated, err := s.UpdateAccount(ctx, u.ID, acc.ID, AccountUpdate{Name: &name, Type: &typ})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Pocket" || updated.Type != "cash" || !updated.Balance.Equal(dec("20")) {
		t.Errorf("updated = %+v", updated)
	}

	list, err := s.ListAccounts(ctx, u.ID)
	if err != nil || len(list) != 1 || list[0].Name != "Pocket" {
		t.Fatalf("list = %+v, %v", list, err)
	}

	if err := s.DeleteAccount(ctx, u.ID, acc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetAccount(ctx, u.ID, acc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
}

func TestDeleteAccountWithHistoryIsRestricted(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	u := newUser(t, s, "alice")
	a := newAccount(t, s, u.ID, "A", "100")
	b := newAccount(t, s, u.ID, "B", "0")

	txn, err := s.CreateTransaction(ctx, u.ID, CreateTransactionInput{Amount: dec("10"), Type: "transfer", SourceAccountID: &a.ID, DestinationAccountID: &b.ID})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	if err := s.DeleteAccount(ctx, u.ID, b.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("delete referenced account = %v, want ErrConflict", err)
	}
	assertBalance(t, s, u.ID, a.ID, "90")

	if err := s.DeleteTransaction(ctx, u.ID, txn.ID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
	if err := s.DeleteAccount(ctx, u.ID, b.ID); err != nil {
		t.Errorf("delete after history removed: %v", err)
	}
	assertBalance(t, s, u.ID, a.ID, "100")
}

func TestCategories(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	u := newUser(t, s, "alice")

	cats, err := s.ListCategories(ctx, u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != len(DefaultExpenseCategories)+len(DefaultIncomeCategories) {
		t.Errorf("seeded %d categories, want 12", len(cats))
	}
	// ordered by type then name
	if cats[0].Type != models.TypeExpense || cats[0].Name != "Bills" {
		t.Errorf("first category = %s/%s, want expense/Bills", cats[0].Type, cats[0].Name)
	}

	if _, err := s.CreateCategory(ctx, u.ID, CategoryInput{Name: "Food", Type: "expense"}); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate = %v, want ErrConflict", err)
	}
	// same name, other type is fine
	if _, err := s.CreateCategory(ctx, u.ID, CategoryInput{Name: "Food", Type: "income"}); err != nil {
		t.Errorf("same name other type: %v", err)
	}
	if _, err := s.CreateCategory(ctx, u.ID, CategoryInput{Name: "Moving", Type: "transfer"}); !errors.Is(err, ErrValidation) {
		t.Errorf("transfer category = %v, want ErrValidation", err)
	}

	// another user may reuse the name
	bob := newUser(t, s, "bob")
	if _, err := s.CreateCategory(ctx, bob.ID, CategoryInput{Name: "Pets", Type: "expense"}); err != nil {
		t.Fatalf("bob create: %v", err)
	}
	if _, err := s.CreateCategory(ctx, u.ID, CategoryInput{Name: "Pets", Type: "expense"}); err != nil {
		t.Errorf("alice create same name as bob: %v", err)
	}
}

func TestDeleteCategoryUncategorizes(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	u := newUser(t, s, "alice")
	acc := newAccount(t, s, u.ID, "Checking", "100")
	food := categoryID(t, s, u.ID, "Food", models.TypeExpense)

	txn, err := s.CreateTransaction(ctx, u.ID, CreateTransactionInput{Amount: dec("30"), Type: "expense", AccountID: &acc.ID, CategoryID: &food})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.DeleteCategory(ctx, u.ID, food); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	got, err := s.GetTransaction(ctx, u.ID, txn.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CategoryID != nil {
		t.Errorf("category id = %d, want nil", *got.CategoryID)
	}
	assertBalance(t, s, u.ID, acc.ID, "70")

	st, _ := s.Stats(ctx, u.ID, MonthFilter{})
	if len(st.CategoryStats) != 1 || st.CategoryStats[0].Name != UncategorizedName {
		t.Errorf("category stats = %+v", st.CategoryStats)
	}
	if err := s.DeleteCategory(ctx, u.ID, food); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestAssets(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	u := newUser(t, s, "alice")

	a, err := s.CreateAsset(ctx, u.ID, AssetInput{Name: "House", Value: dec("250000")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Type != "other" {
		t.Errorf("type = %q, want other", a.Type)
	}
	if _, err := s.CreateAsset(ctx, u.ID, AssetInput{Name: "Gold", Value: dec("1.123456")}); !errors.Is(err, ErrValidation) {
		t.Errorf("asset value scale error = %v, want ErrValidation", err)
	}

	a, err = s.UpdateAsset(ctx, u.ID, a.ID, AssetInput{Name: "House", Value: dec("260000"), Type: "Property"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !a.Value.Equal(dec("260000")) || a.Type != "property" {
		t.Errorf("updated = %+v", a)
	}

	bob := newUser(t, s, "bob")
	if _, err := s.UpdateAsset(ctx, bob.ID, a.ID, AssetInput{Name: "Mine"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("bob update = %v, want ErrNotFound", err)
	}
	if err := s.DeleteAsset(ctx, bob.ID, a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("bob delete = %v, want ErrNotFound", err)
	}

	if err := s.DeleteAsset(ctx, u.ID, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ := s.ListAssets(ctx, u.ID)
	if len(list) != 0 {
		t.Errorf("assets left = %d", len(list))
	}
}
