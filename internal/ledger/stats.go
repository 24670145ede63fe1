package ledger

import (
	"context"
	"sort"

	"finance-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// UncategorizedName labels transactions without a category in breakdowns.
const UncategorizedName = "Uncategorized"

// CategoryStat is one row of the per-category breakdown.
type CategoryStat struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
	Type  string          `json:"type"`
}

// Stats summarises income and expenses over a period. Transfers move money
// between the owner's accounts and are not counted.
type Stats struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	IncomeCount   int64           `json:"income_count"`
	ExpenseCount  int64           `json:"expense_count"`
	CategoryStats []CategoryStat  `json:"categoryStats"`
}

// ZeroStats is the empty summary, also served when the store cannot be read.
func ZeroStats() Stats {
	return Stats{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		CategoryStats: []CategoryStat{},
	}
}

type statRow struct {
	Type         string
	Amount       decimal.Decimal
	CategoryName *string
}

// Stats computes totals, counts and the category breakdown for the filter.
func (s *Service) Stats(ctx context.Context, userID uint, f MonthFilter) (Stats, error) {
	if err := requireUser(userID); err != nil {
		return ZeroStats(), err
	}

	q := s.db(ctx).Table("transactions AS t").
		Select("t.type, t.amount, c.name AS category_name").
		Joins("LEFT JOIN categories c ON c.id = t.category_id").
		Where("t.user_id = ? AND t.type IN ?", userID, []string{models.TypeIncome, models.TypeExpense})
	q, err := f.apply(q, "t.date")
	if err != nil {
		return ZeroStats(), err
	}

	var rows []statRow
	if err := q.Scan(&rows).Error; err != nil {
		return ZeroStats(), storageErr("load stats", err)
	}
	return summarize(rows), nil
}

// summarize folds rows in Go so sums stay exact decimals on every dialect.
func summarize(rows []statRow) Stats {
	out := ZeroStats()

	type key struct{ name, typ string }
	totals := make(map[key]decimal.Decimal)
	for _, r := range rows {
		switch r.Type {
		case models.TypeIncome:
			out.TotalIncome = out.TotalIncome.Add(r.Amount)
			out.IncomeCount++
		case models.TypeExpense:
			out.TotalExpenses = out.TotalExpenses.Add(r.Amount)
			out.ExpenseCount++
		default:
			continue
		}
		name := UncategorizedName
		if r.CategoryName != nil {
			name = *r.CategoryName
		}
		k := key{name, r.Type}
		totals[k] = totals[k].Add(r.Amount)
	}

	for k, total := range totals {
		out.CategoryStats = append(out.CategoryStats, CategoryStat{Name: k.name, Total: total, Type: k.typ})
	}
	sort.Slice(out.CategoryStats, func(i, j int) bool {
		a, b := out.CategoryStats[i], out.CategoryStats[j]
		if c := a.Total.Cmp(b.Total); c != 0 {
			return c > 0
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Type < b.Type
	})
	return out
}

// MonthTotal is income and expenses of one calendar month.
type MonthTotal struct {
	Month    int             `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// Monthly returns twelve rows, January to December of year.
func (s *Service) Monthly(ctx context.Context, userID uint, year int) ([]MonthTotal, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	first, _, err := MonthFilter{Month: 1, Year: year}.Range()
	if err != nil {
		return nil, invalidf("%v", err)
	}
	next := first.AddDate(1, 0, 0)

	var rows []models.Transaction
	err = s.db(ctx).
		Select("type", "amount", "date").
		Where("user_id = ? AND type IN ? AND date >= ? AND date < ?",
			userID, []string{models.TypeIncome, models.TypeExpense}, first, next).
		Find(&rows).Error
	if err != nil {
		return nil, storageErr("load monthly totals", err)
	}

	out := make([]MonthTotal, 12)
	for i := range out {
		out[i] = MonthTotal{Month: i + 1, Income: decimal.Zero, Expenses: decimal.Zero}
	}
	for _, t := range rows {
		m := &out[t.Date.UTC().Month()-1]
		if t.Type == models.TypeIncome {
			m.Income = m.Income.Add(t.Amount)
		} else {
			m.Expenses = m.Expenses.Add(t.Amount)
		}
	}
	return out, nil
}

// NetWorth is the sum of account balances and asset values.
type NetWorth struct {
	AccountsTotal decimal.Decimal `json:"accounts_total"`
	AssetsTotal   decimal.Decimal `json:"assets_total"`
	NetWorth      decimal.Decimal `json:"net_worth"`
}

// NetWorth totals the owner's accounts and assets.
func (s *Service) NetWorth(ctx context.Context, userID uint) (NetWorth, error) {
	out := NetWorth{AccountsTotal: decimal.Zero, AssetsTotal: decimal.Zero, NetWorth: decimal.Zero}
	if err := requireUser(userID); err != nil {
		return out, err
	}

	var accounts []models.Account
	if err := s.db(ctx).Select("balance").Where("user_id = ?", userID).Find(&accounts).Error; err != nil {
		return out, storageErr("load accounts", err)
	}
	var assets []models.Asset
	if err := s.db(ctx).Select("value").Where("user_id = ?", userID).Find(&assets).Error; err != nil {
		return out, storageErr("load assets", err)
	}

	for _, a := range accounts {
		out.AccountsTotal = out.AccountsTotal.Add(a.Balance)
	}
	for _, a := range assets {
		out.AssetsTotal = out.AssetsTotal.Add(a.Value)
	}
	out.NetWorth = out.AccountsTotal.Add(out.AssetsTotal)
	return out, nil
}
