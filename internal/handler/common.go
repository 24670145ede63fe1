package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"finance-ledger/internal/ledger"
	"finance-ledger/internal/middleware"
	"finance-ledger/internal/models"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser 取出鉴权中间件放入的当前用户，没有则直接返回 401
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(middleware.CurrentUserKey)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "unauthorized")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "unauthorized")
		return nil, false
	}
	return user, true
}

// respondErr maps a ledger error kind to status and business code.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case errors.Is(err, ledger.ErrUnauthorized):
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
	case errors.Is(err, ledger.ErrConflict):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	default:
		// storage details stay in the log
		slog.Error("request failed", "path", c.Request.URL.Path, "error", err)
		_ = c.Error(err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
	}
}

func badRequest(c *gin.Context, msg string) {
	util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msg)
}

// paramID 解析路径参数中的 id
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// monthFilter reads the optional ?month=&year= pair.
func monthFilter(c *gin.Context) (ledger.MonthFilter, bool) {
	f, err := ledger.ParseMonthFilter(c.Query("month"), c.Query("year"))
	if err != nil {
		respondErr(c, err)
		return f, false
	}
	return f, true
}
