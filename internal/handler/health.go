package handler

import (
	"context"
	"net/http"
	"time"

	"finance-ledger/internal/database"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Health pings the store; 503 when it does not answer within two seconds.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			util.Error(c, http.StatusServiceUnavailable, util.CodeServerErr, "database unavailable")
			return
		}
		util.Success(c, util.Response{"status": "ok"})
	}
}
