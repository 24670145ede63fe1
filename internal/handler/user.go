package handler

import (
	"finance-ledger/internal/ledger"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// UserHandler 负责当前用户资料接口
type UserHandler struct {
	Svc *ledger.Service
}

func NewUserHandler(svc *ledger.Service) *UserHandler {
	return &UserHandler{Svc: svc}
}

// GetMe 返回当前登录用户信息（需要经过鉴权中间件）
func (h *UserHandler) GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	util.Success(c, util.Response{"user": user})
}

type updateProfileReq struct {
	Name string `json:"name" binding:"required,max=64"`
}

// UpdateMe 修改昵称
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name is required")
		return
	}
	updated, err := h.Svc.UpdateName(c.Request.Context(), user.ID, req.Name)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{"user": updated})
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

// ChangePassword 修改当前用户密码
func (h *UserHandler) ChangePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "old_password and a new_password of 6-72 characters are required")
		return
	}
	if err := h.Svc.ChangePassword(c.Request.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{"success": true})
}
