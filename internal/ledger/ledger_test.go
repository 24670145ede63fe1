package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"finance-ledger/internal/config"
	"finance-ledger/internal/database"
	"finance-ledger/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "ledger.db"),
	})
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewService(db, bcrypt.MinCost)
}

func newUser(t *testing.T, s *Service, username string) *models.User {
	t.Helper()
	u, err := s.Signup(context.Background(), SignupInput{
		Name:     "Test " + username,
		Username: username,
		Password: "secret123",
		Pincode:  "1234",
	})
	if err != nil {
		t.Fatalf("signup %s: %v", username, err)
	}
	return u
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func id(v uint) *uint { return &v }

func newAccount(t *testing.T, s *Service, userID uint, name, balance string) *models.Account {
	t.Helper()
	acc, err := s.CreateAccount(context.Background(), userID, AccountInput{Name: name, Type: "bank", Balance: dec(balance)})
	if err != nil {
		t.Fatalf("create account %s: %v", name, err)
	}
	return acc
}

func balanceOf(t *testing.T, s *Service, userID, accountID uint) decimal.Decimal {
	t.Helper()
	acc, err := s.GetAccount(context.Background(), userID, accountID)
	if err != nil {
		t.Fatalf("get account %d: %v", accountID, err)
	}
	return acc.Balance
}

func categoryID(t *testing.T, s *Service, userID uint, name, typ string) uint {
	t.Helper()
	cats, err := s.ListCategories(context.Background(), userID)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	for _, c := range cats {
		if c.Name == name && c.Type == typ {
			return c.ID
		}
	}
	t.Fatalf("category %s/%s not found", name, typ)
	return 0
}

func assertBalance(t *testing.T, s *Service, userID, accountID uint, want string) {
	t.Helper()
	if got := balanceOf(t, s, userID, accountID); !got.Equal(dec(want)) {
		t.Errorf("account %d balance = %s, want %s", accountID, got, want)
	}
}

func TestIncomeIncreasesBalance(t *testing.T) {
	s := newTestService(t)
	u := newUser(t, s, "alice")
	acc := newAccount(t, s, u.ID, "Checking", "1000")

	txn, err := s.CreateTransaction(context.Background(), u.ID, CreateTransactionInput{
		Amount:     dec("500"),
		Type:       "income",
		CategoryID: id(categoryID(t, s, u.ID, "Salary", models.TypeIncome)),
		AccountID:  &acc.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if txn.ID == 0 {
		t.Error("transaction id not assigned")
	}
	assertBalance(t, s, u.ID, acc.ID, "1500")
}

func TestDeleteExpenseRestoresBalance(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	u := newUser(t, s, "alice")
	acc := newAccount(t, s, u.ID, "Checking", "1000")

	txn, err := s.CreateTransaction(ctx, u.ID, CreateTransactionInput{Amount: dec("200"), Type: "expense", AccountID: &acc.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	assertBalance(t, s, u.ID, acc.ID, "800")

	if err := s.DeleteTransaction(ctx, u.ID, txn.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertBalance(t, s, u.ID, acc.ID, "1000")

	list, err := s.ListTransactions(ctx, u.ID, MonthFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("list has %d transactions after delete, want 0", len(list))
	}

	if err := s.DeleteTransaction(ctx, u.ID, txn.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
	assertBalance(t, s, u.ID, acc.ID, "1000")
}

func TestTransferMovesMoney(t *testing.T) {
	s := newTestService(t)
	u := newUser(t, s, "alice")
	src := newAccount(t, s, u.ID, "Checking", "2000")
	dst := newAccount(t, s, u.ID, "Savings", "500")

	_, err := s.CreateTransaction(context.Background(), u.ID, CreateTransactionInput{
		Amount:               dec("300"),
		Type:                 "transfer",
		SourceAccountID:      &src.ID,
		DestinationAccountID: &dst.ID,
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	assertBalance(t, s, u.ID, src.ID, "1700")
	assertBalance(t, s, u.ID, dst.ID, "800")
}

func TestCreateTransactionValidation(t *testing.T) {
	s := newTestService(t)
	u := newUser(t, s, "alice")
	acc := newAccount(t, s, u.ID, "Checking", "100")
	salary := categoryID(t, s, u.ID, "Salary", models.TypeIncome)

	cases := []struct {
		name string
		in   CreateTransactionInput
	}{
		{"zero amount", CreateTransactionInput{Amount: dec("0"), Type: "expense", AccountID: &acc.ID}},
		{"negative amount", CreateTransactionInput{Amount: dec("-5"), Type: "expense", AccountID: &acc.ID}},
		{"too large", CreateTransactionInput{Amount: dec("10000000"), Type: "income", AccountID: &acc.ID}},
		{"too many decimals", CreateTransactionInput{Amount: dec("0.00001"), Type: "income", AccountID: &acc.ID}},
		{"unknown type", CreateTransactionInput{Amount: dec("5"), Type: "refund", AccountID: &acc.ID}},
		{"missing account", CreateTransactionInput{Amount: dec("5"), Type: "expense"}},
		{"zero account id", CreateTransactionInput{Amount: dec("5"), Type: "expense", AccountID: id(0)}},
		{"transfer same account", CreateTransactionInput{Amount: dec("5"), Type: "transfer", SourceAccountID: &acc.ID, DestinationAccountID: &acc.ID}},
		{"transfer missing side", CreateTransactionInput{Amount: dec("5"), Type: "transfer", SourceAccountID: &acc.ID}},
		{"bad date", CreateTransactionInput{Amount: dec("5"), Type: "expense", AccountID: &acc.ID, Date: "yesterday"}},
		{"category type mismatch", CreateTransactionInput{Amount: dec("5"), Type: "expense", AccountID: &acc.ID, CategoryID: &salary}},
	}
	for _, tc := range cases {
		_, err := s.CreateTransaction(context.Background(), u.ID, tc.in)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%s: error = %v, want ErrValidation", tc.name, err)
		}
	}
	assertBalance(t, s, u.ID, acc.ID, "100")
}

func TestUnknownAccountLeavesNoRow(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	u := newUser(t, s, "alice")

	_, err := s.CreateTransaction(ctx, u.ID, CreateTransactionInput{Amount: dec("10"), Type: "expense", AccountID: id(999)})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	var n int64
	s.DB.Model(&models.Transaction{}).Count(&n)
	if n != 0 {
		t.Errorf("%d transaction rows persisted, want 0", n)
	}
}

func TestRequiresUser(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.ListTransactions(ctx, 0, MonthFilter{}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("ListTransactions error = %v, want ErrUnauthorized", err)
	}
	if _, err := s.CreateTransaction(ctx, 0, CreateTransactionInput{Amount: dec("1"), Type: "income", AccountID: id(1)}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("CreateTransaction error = %v, want ErrUnauthorized", err)
	}
	if err := s.DeleteTransaction(ctx, 0, 1); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("DeleteTransaction error = %v, want ErrUnauthorized", err)
	}
	if _, err := s.Stats(ctx, 0, MonthFilter{}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Stats error = %v, want ErrUnauthorized", err)
	}
	if _, err := s.ListAccounts(ctx, 0); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("ListAccounts error = %v, want ErrUnauthorized", err)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	alice := newUser(t, s, "alice")
	bob := newUser(t, s, "bob")
	acc := newAccount(t, s, alice.ID, "Checking", "1000")

	txn, err := s.CreateTransaction(ctx, alice.ID, CreateTransactionInput{Amount: dec("50"), Type: "expense", AccountID: &acc.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// bob cannot post to, read, or delete alice's data
	if _, err := s.CreateTransaction(ctx, bob.ID, CreateTransactionInput{Amount: dec("10"), Type: "income", AccountID: &acc.ID}); !errors.Is(err, ErrNotFound) {
		t.Errorf("bob create on alice account: %v, want ErrNotFound", err)
	}
	if err := s.DeleteTransaction(ctx, bob.ID, txn.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("bob delete: %v, want ErrNotFound", err)
	}
	if _, err := s.GetAccount(ctx, bob.ID, acc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("bob get account: %v, want ErrNotFound", err)
	}
	if err := s.DeleteAccount(ctx, bob.ID, acc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("bob delete account: %v, want ErrNotFound", err)
	}
	aliceFood := categoryID(t, s, alice.ID, "Food", models.TypeExpense)
	if err := s.DeleteCategory(ctx, bob.ID, aliceFood); !errors.Is(err, ErrNotFound) {
		t.Errorf("bob delete category: %v, want ErrNotFound", err)
	}

	list, err := s.ListTransactions(ctx, bob.ID, MonthFilter{})
	if err != nil {
		t.Fatalf("bob list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("bob sees %d transactions, want 0", len(list))
	}
	stats, err := s.Stats(ctx, bob.ID, MonthFilter{})
	if err != nil {
		t.Fatalf("bob stats: %v", err)
	}
	if stats.ExpenseCount != 0 {
		t.Errorf("bob expense count = %d, want 0", stats.ExpenseCount)
	}
	assertBalance(t, s, alice.ID, acc.ID, "950")
}

func TestListTransactionsResolvesNames(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	u := newUser(t, s, "alice")
	checking := newAccount(t, s, u.ID, "Checking", "1000")
	savings := newAccount(t, s, u.ID, "Savings", "0")
	food := categoryID(t, s, u.ID, "Food", models.TypeExpense)

	if _, err := s.CreateTransaction(ctx, u.ID, CreateTransactionInput{
		Amount: dec("12.5"), Type: "expense", AccountID: &checking.ID, CategoryID: &food,
		Description: "  lunch ", Date: "2024-03-01",
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if _, err := s.CreateTransaction(ctx, u.ID, CreateTransactionInput{
		Amount: dec("100"), Type: "transfer", SourceAccountID: &checking.ID, DestinationAccountID: &savings.ID,
		Date: "2024-03-02T10:00:00Z",
	}); err != nil {
		t.Fatalf("create transfer: %v", err)
	}

	list, err := s.ListTransactions(ctx, u.ID, MonthFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}

	// newest first
	transfer, expense := list[0], list[1]
	if transfer.Type != models.TypeTransfer {
		t.Fatalf("first row type = %s, want transfer", transfer.Type)
	}
	if transfer.SourceAccountName == nil || *transfer.SourceAccountName != "Checking" {
		t.Errorf("source account name = %v", transfer.SourceAccountName)
	}
	if transfer.DestinationAccountName == nil || *transfer.DestinationAccountName != "Savings" {
		t.Errorf("destination account name = %v", transfer.DestinationAccountName)
	}
	if transfer.CategoryName != nil {
		t.Errorf("transfer category name = %v, want nil", *transfer.CategoryName)
	}
	if expense.CategoryName == nil || *expense.CategoryName != "Food" {
		t.Errorf("category name = %v, want Food", expense.CategoryName)
	}
	if expense.AccountName == nil || *expense.AccountName != "Checking" {
		t.Errorf("account name = %v, want Checking", expense.AccountName)
	}
	if expense.Description != "lunch" {
		t.Errorf("description = %q, want lunch", expense.Description)
	}
	if !expense.Amount.Equal(dec("12.5")) {
		t.Errorf("amount = %s, want 12.5", expense.Amount)
	}

	march, _ := ParseMonthFilter("3", "2024")
	april, _ := ParseMonthFilter("4", "2024")
	if got, _ := s.ListTransactions(ctx, u.ID, march); len(got) != 2 {
		t.Errorf("march list len = %d, want 2", len(got))
	}
	if got, _ := s.ListTransactions(ctx, u.ID, april); len(got) != 0 {
		t.Errorf("april list len = %d, want 0", len(got))
	}
}
