package handler

import (
	"finance-ledger/internal/ledger"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	Svc *ledger.Service
}

func NewCategoryHandler(svc *ledger.Service) *CategoryHandler {
	return &CategoryHandler{Svc: svc}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.Svc.ListCategories(c.Request.Context(), user.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, list)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req ledger.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cat, err := h.Svc.CreateCategory(c.Request.Context(), user.ID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, cat)
}

// DeleteCategory 删除分类，相关记录变为未分类
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteCategory(c.Request.Context(), user.ID, id); err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{"success": true})
}
