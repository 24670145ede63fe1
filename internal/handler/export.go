package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"finance-ledger/internal/export"
	"finance-ledger/internal/ledger"

	"github.com/gin-gonic/gin"
)

// ExportHandler 导出 CSV / XLSX / PDF
type ExportHandler struct {
	Svc *ledger.Service
}

func NewExportHandler(svc *ledger.Service) *ExportHandler {
	return &ExportHandler{Svc: svc}
}

// load reads the caller's transactions for the requested month, or all time.
func (h *ExportHandler) load(c *gin.Context) (ledger.MonthFilter, []ledger.TransactionView, bool) {
	user, ok := currentUser(c)
	if !ok {
		return ledger.MonthFilter{}, nil, false
	}
	f, ok := monthFilter(c)
	if !ok {
		return f, nil, false
	}
	rows, err := h.Svc.ListTransactions(c.Request.Context(), user.ID, f)
	if err != nil {
		respondErr(c, err)
		return f, nil, false
	}
	return f, rows, true
}

// send buffers the document first so a render error can still be reported as
// JSON instead of a truncated download.
func send(c *gin.Context, contentType, fileName string, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		respondErr(c, fmt.Errorf("render %s: %w", fileName, err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", fileName))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// ExportCSV 导出记录为 CSV
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	f, rows, ok := h.load(c)
	if !ok {
		return
	}
	send(c, "text/csv; charset=utf-8", export.FileName(f, time.Now(), "csv"), func(buf *bytes.Buffer) error {
		return export.WriteCSV(buf, rows)
	})
}

// ExportXLSX 导出记录为 XLSX
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	f, rows, ok := h.load(c)
	if !ok {
		return
	}
	send(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.FileName(f, time.Now(), "xlsx"), func(buf *bytes.Buffer) error {
		return export.WriteXLSX(buf, rows)
	})
}

// ExportPDF renders a statement with totals, the category breakdown and rows.
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	f, rows, ok := h.load(c)
	if !ok {
		return
	}
	user, _ := currentUser(c)

	stats, err := h.Svc.Stats(c.Request.Context(), user.ID, f)
	if err != nil {
		respondErr(c, err)
		return
	}

	st := export.Statement{
		Owner:        user.Name,
		Filter:       f,
		Stats:        stats,
		Transactions: rows,
		Generated:    time.Now().UTC(),
	}
	send(c, "application/pdf", export.FileName(f, time.Now(), "pdf"), func(buf *bytes.Buffer) error {
		return export.WritePDF(buf, st)
	})
}
