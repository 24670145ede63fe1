// Package export renders transaction lists as CSV, XLSX and PDF statements.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"finance-ledger/internal/ledger"
	"finance-ledger/internal/models"

	"github.com/xuri/excelize/v2"
)

// Header is the column order shared by the CSV and XLSX exports.
var Header = []string{"Date", "Type", "Amount", "Category", "Account", "Description"}

// utf8BOM lets spreadsheet programs detect the encoding of the CSV.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// accountLabel names the account a row touched; transfers show both sides.
func accountLabel(t ledger.TransactionView) string {
	if t.Type == models.TypeTransfer {
		return deref(t.SourceAccountName) + " -> " + deref(t.DestinationAccountName)
	}
	return deref(t.AccountName)
}

func categoryLabel(t ledger.TransactionView) string {
	if t.Type == models.TypeTransfer {
		return ""
	}
	if t.CategoryName == nil {
		return ledger.UncategorizedName
	}
	return *t.CategoryName
}

func record(t ledger.TransactionView) []string {
	return []string{
		t.Date.UTC().Format("2006-01-02"),
		t.Type,
		t.Amount.StringFixed(2),
		categoryLabel(t),
		accountLabel(t),
		t.Description,
	}
}

// WriteCSV writes rows with a header line, prefixed by a UTF-8 BOM.
func WriteCSV(w io.Writer, rows []ledger.TransactionView) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, t := range rows {
		if err := cw.Write(record(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "Transactions"

// WriteXLSX writes rows to a single worksheet. Amounts are numeric cells.
func WriteXLSX(w io.Writer, rows []ledger.TransactionView) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, t := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		rec := record(t)
		values := []interface{}{rec[0], rec[1], t.Amount.InexactFloat64(), rec[3], rec[4], rec[5]}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	// 设置列宽
	widths := map[string]float64{"A": 12, "B": 10, "C": 14, "D": 16, "E": 24, "F": 36}
	for col, width := range widths {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return err
		}
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	return f.Write(w)
}

// FileName builds an attachment name such as transactions_2024-03.csv or
// transactions_20240415.csv when no month is selected.
func FileName(f ledger.MonthFilter, now time.Time, ext string) string {
	if f.IsZero() {
		return fmt.Sprintf("transactions_%s.%s", now.Format("20060102"), ext)
	}
	return fmt.Sprintf("transactions_%04d-%02d.%s", f.Year, f.Month, ext)
}
