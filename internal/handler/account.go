package handler

import (
	"finance-ledger/internal/ledger"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// AccountHandler 负责账户接口
type AccountHandler struct {
	Svc *ledger.Service
}

// NewAccountHandler 构造函数
func NewAccountHandler(svc *ledger.Service) *AccountHandler {
	return &AccountHandler{Svc: svc}
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.Svc.ListAccounts(c.Request.Context(), user.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, list)
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req ledger.AccountInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	acc, err := h.Svc.CreateAccount(c.Request.Context(), user.ID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, acc)
}

// UpdateAccount 只允许修改名称和类型，余额由交易驱动
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ledger.AccountUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	acc, err := h.Svc.UpdateAccount(c.Request.Context(), user.ID, id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, acc)
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteAccount(c.Request.Context(), user.ID, id); err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{"success": true})
}

// Reconcile compares the stored balance with the one implied by history.
func (h *AccountHandler) Reconcile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rec, err := h.Svc.Reconcile(c.Request.Context(), user.ID, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, rec)
}
