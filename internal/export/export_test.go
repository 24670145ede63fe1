package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"finance-ledger/internal/ledger"
	"finance-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func str(s string) *string { return &s }

func sampleRows() []ledger.TransactionView {
	day := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	return []ledger.TransactionView{
		{
			Transaction:  models.Transaction{ID: 1, Type: models.TypeExpense, Amount: decimal.RequireFromString("12.5"), Description: "lunch, with \"team\"", Date: day},
			CategoryName: str("Food"),
			AccountName:  str("Checking"),
		},
		{
			Transaction: models.Transaction{ID: 2, Type: models.TypeIncome, Amount: decimal.NewFromInt(1000), Date: day},
			AccountName: str("Checking"),
		},
		{
			Transaction:            models.Transaction{ID: 3, Type: models.TypeTransfer, Amount: decimal.NewFromInt(50), Date: day},
			SourceAccountName:      str("Checking"),
			DestinationAccountName: str("Savings"),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), utf8BOM) {
		t.Fatal("missing BOM")
	}

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(utf8BOM):])).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("records = %d, want 4", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(Header, ",") {
		t.Errorf("header = %v", records[0])
	}
	want := []string{"2024-03-05", "expense", "12.50", "Food", "Checking", "lunch, with \"team\""}
	for i := range want {
		if records[1][i] != want[i] {
			t.Errorf("row 1 col %d = %q, want %q", i, records[1][i], want[i])
		}
	}
	if records[2][3] != ledger.UncategorizedName {
		t.Errorf("uncategorized income category = %q", records[2][3])
	}
	if records[3][4] != "Checking -> Savings" || records[3][3] != "" {
		t.Errorf("transfer row = %v", records[3])
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	if rows[0][0] != "Date" || rows[1][3] != "Food" {
		t.Errorf("rows = %v", rows[:2])
	}
	if rows[2][2] != "1000" {
		t.Errorf("amount cell = %q, want 1000", rows[2][2])
	}
}

func TestWritePDF(t *testing.T) {
	stats := ledger.ZeroStats()
	stats.TotalIncome = decimal.NewFromInt(1000)
	stats.TotalExpenses = decimal.RequireFromString("12.5")
	stats.IncomeCount, stats.ExpenseCount = 1, 1
	stats.CategoryStats = []ledger.CategoryStat{{Name: "Café", Total: decimal.RequireFromString("12.5"), Type: models.TypeExpense}}

	var buf bytes.Buffer
	err := WritePDF(&buf, Statement{
		Owner:        "Zoë",
		Filter:       ledger.MonthFilter{Month: 3, Year: 2024},
		Stats:        stats,
		Transactions: sampleRows(),
		Generated:    time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output is not a PDF: %q", buf.Bytes()[:8])
	}
}

func TestStatementPeriodAndFileName(t *testing.T) {
	if p := (Statement{}).Period(); p != "All time" {
		t.Errorf("period = %q", p)
	}
	if p := (Statement{Filter: ledger.MonthFilter{Month: 2, Year: 2024}}).Period(); p != "February 2024" {
		t.Errorf("period = %q", p)
	}

	now := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	if got := FileName(ledger.MonthFilter{}, now, "csv"); got != "transactions_20240415.csv" {
		t.Errorf("file name = %q", got)
	}
	if got := FileName(ledger.MonthFilter{Month: 3, Year: 2024}, now, "pdf"); got != "transactions_2024-03.pdf" {
		t.Errorf("file name = %q", got)
	}
}
