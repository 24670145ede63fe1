package handler

import (
	"errors"
	"log/slog"

	"finance-ledger/internal/ledger"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// TransactionHandler 负责收支/转账记录接口
type TransactionHandler struct {
	Svc *ledger.Service
}

// NewTransactionHandler 构造函数
func NewTransactionHandler(svc *ledger.Service) *TransactionHandler {
	return &TransactionHandler{Svc: svc}
}

// CreateTransaction records a transaction and returns the persisted row.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req ledger.CreateTransactionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	txn, err := h.Svc.CreateTransaction(c.Request.Context(), user.ID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	slog.Info("transaction created", "user_id", user.ID, "id", txn.ID, "type", txn.Type)
	util.Success(c, txn)
}

// ListTransactions 列出当前用户的记录，可选 ?month=&year=。
// A store failure is logged and served as an empty list.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	f, ok := monthFilter(c)
	if !ok {
		return
	}

	items, err := h.Svc.ListTransactions(c.Request.Context(), user.ID, f)
	if err != nil {
		if !errors.Is(err, ledger.ErrStorage) {
			respondErr(c, err)
			return
		}
		slog.Error("list transactions", "user_id", user.ID, "error", err)
		items = []ledger.TransactionView{}
	}
	util.Success(c, items)
}

type deleteTransactionReq struct {
	ID uint `json:"id" binding:"required"`
}

// DeleteTransaction takes the id from the path, or from a JSON body {id} when
// called as DELETE /api/transactions.
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var id uint
	if c.Param("id") != "" {
		if id, ok = paramID(c, "id"); !ok {
			return
		}
	} else {
		var req deleteTransactionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "transaction id is required")
			return
		}
		id = req.ID
	}

	if err := h.Svc.DeleteTransaction(c.Request.Context(), user.ID, id); err != nil {
		respondErr(c, err)
		return
	}
	slog.Info("transaction deleted", "user_id", user.ID, "id", id)
	util.Success(c, util.Response{"success": true})
}
