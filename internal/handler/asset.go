package handler

import (
	"finance-ledger/internal/ledger"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// AssetHandler 负责资产接口（只计入净资产，不影响账户余额）
type AssetHandler struct {
	Svc *ledger.Service
}

func NewAssetHandler(svc *ledger.Service) *AssetHandler {
	return &AssetHandler{Svc: svc}
}

func (h *AssetHandler) ListAssets(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.Svc.ListAssets(c.Request.Context(), user.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, list)
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req ledger.AssetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	asset, err := h.Svc.CreateAsset(c.Request.Context(), user.ID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, asset)
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ledger.AssetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	asset, err := h.Svc.UpdateAsset(c.Request.Context(), user.ID, id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, asset)
}

func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteAsset(c.Request.Context(), user.ID, id); err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{"success": true})
}
