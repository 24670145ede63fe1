package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"finance-ledger/internal/ledger"
	"finance-ledger/internal/models"

	"github.com/phpdave11/gofpdf"
)

// Statement is the content of a PDF statement.
type Statement struct {
	Owner        string
	Filter       ledger.MonthFilter
	Stats        ledger.Stats
	Transactions []ledger.TransactionView
	Generated    time.Time
}

// maxStatementRows caps the transaction table; totals still cover everything.
const maxStatementRows = 500

// Period describes the filter window in words.
func (s Statement) Period() string {
	if s.Filter.IsZero() {
		return "All time"
	}
	return time.Date(s.Filter.Year, time.Month(s.Filter.Month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

var tableCols = []struct {
	title string
	width float64
	align string
}{
	{"DATE", 24, "C"},
	{"TYPE", 20, "C"},
	{"CATEGORY", 30, "L"},
	{"ACCOUNT", 40, "L"},
	{"DESCRIPTION", 48, "L"},
	{"AMOUNT", 20, "R"},
}

func tableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(245, 245, 245)
	for i, c := range tableCols {
		ln := 0
		if i == len(tableCols)-1 {
			ln = 1
		}
		pdf.CellFormat(c.width, 7, c.title, "1", ln, "C", true, 0, "")
	}
	pdf.SetFont("Helvetica", "", 8)
}

// WritePDF renders an A4 statement: summary totals, the category breakdown
// and the transaction rows.
func WritePDF(w io.Writer, st Statement) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(false, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Account Statement")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Period: "+st.Period())
	pdf.Ln(5)
	if st.Owner != "" {
		pdf.Cell(0, 6, tr("Owner: "+st.Owner))
		pdf.Ln(5)
	}
	pdf.Ln(5)

	// summary
	net := st.Stats.TotalIncome.Sub(st.Stats.TotalExpenses)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)
	sumW := 182.0 / 3
	pdf.CellFormat(sumW, 9, fmt.Sprintf("Income (%d)", st.Stats.IncomeCount), "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW, 9, fmt.Sprintf("Expenses (%d)", st.Stats.ExpenseCount), "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW, 9, "Net", "1", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW, 9, st.Stats.TotalIncome.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW, 9, st.Stats.TotalExpenses.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW, 9, net.StringFixed(2), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	if len(st.Stats.CategoryStats) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "By category")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 9)
		for _, c := range st.Stats.CategoryStats {
			if pdf.GetY() > 270 {
				pdf.AddPage()
			}
			pdf.CellFormat(90, 6, tr(trimTo(c.Name, 48)), "B", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, c.Type, "B", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, c.Total.StringFixed(2), "B", 1, "R", false, 0, "")
		}
		pdf.Ln(6)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Transactions")
	pdf.Ln(8)
	tableHeader(pdf)
	pdf.SetTextColor(30, 30, 30)

	for i, t := range st.Transactions {
		if i >= maxStatementRows {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.CellFormat(0, 7, fmt.Sprintf("%d more rows not shown", len(st.Transactions)-i), "1", 1, "C", false, 0, "")
			break
		}
		if pdf.GetY() > 270 {
			pdf.AddPage()
			tableHeader(pdf)
		}

		amount := t.Amount.StringFixed(2)
		if t.Type == models.TypeExpense {
			amount = "-" + amount
		}
		rec := record(t)
		cells := []string{rec[0], rec[1], trimTo(rec[3], 18), trimTo(rec[4], 26), trimTo(rec[5], 32), amount}
		for j, c := range tableCols {
			ln := 0
			if j == len(tableCols)-1 {
				ln = 1
			}
			pdf.CellFormat(c.width, 6, tr(cells[j]), "1", ln, c.align, false, 0, "")
		}
	}

	generated := st.Generated
	if generated.IsZero() {
		generated = time.Now().UTC()
	}
	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated "+generated.Format(time.RFC3339), "", 0, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return nil
}
