package handler

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"finance-ledger/internal/ledger"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// StatsHandler 负责统计接口
type StatsHandler struct {
	Svc *ledger.Service
}

// NewStatsHandler 构造函数
func NewStatsHandler(svc *ledger.Service) *StatsHandler {
	return &StatsHandler{Svc: svc}
}

// GetStats returns totals and the category breakdown. A store failure is
// logged and served as zeroed stats.
func (h *StatsHandler) GetStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	f, ok := monthFilter(c)
	if !ok {
		return
	}

	stats, err := h.Svc.Stats(c.Request.Context(), user.ID, f)
	if err != nil {
		if !errors.Is(err, ledger.ErrStorage) {
			respondErr(c, err)
			return
		}
		slog.Error("load stats", "user_id", user.ID, "error", err)
		stats = ledger.ZeroStats()
	}
	util.Success(c, stats)
}

// GetMonthlyStats 按月汇总某一年的收支，?year= 缺省为今年
func (h *StatsHandler) GetMonthlyStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	year := time.Now().UTC().Year()
	if s := c.Query("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			badRequest(c, "invalid year")
			return
		}
		year = y
	}

	rows, err := h.Svc.Monthly(c.Request.Context(), user.ID, year)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{
		"year":   year,
		"months": rows,
	})
}

// GetNetWorth 账户余额 + 资产估值
func (h *StatsHandler) GetNetWorth(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	nw, err := h.Svc.NetWorth(c.Request.Context(), user.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, nw)
}
