package router

import (
	"log/slog"

	"finance-ledger/internal/config"
	"finance-ledger/internal/handler"
	"finance-ledger/internal/ledger"
	"finance-ledger/internal/middleware"
	"finance-ledger/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and every API route. local is the
// owner of a single-tenant deployment and is ignored in multi-tenant mode.
func SetupRouter(cfg *config.Config, db *gorm.DB, svc *ledger.Service, local *models.User, log *slog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	r.GET("/healthz", handler.Health(db))

	// ====== API ======
	api := r.Group("/api")

	if cfg.App.MultiTenant {
		local = nil
	}
	authHandler := handler.NewAuthHandler(svc, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpireHours, local)
	api.GET("/auth/session", authHandler.Session)
	api.POST("/auth/logout", authHandler.Logout)

	// 需要登录才能访问的接口
	protected := api.Group("")
	if cfg.App.MultiTenant {
		// 登录/注册接口（不需要鉴权）
		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/pincode", authHandler.Pincode)
		protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, svc))
	} else {
		protected.Use(middleware.LocalUser(local))
	}

	userHandler := handler.NewUserHandler(svc)
	protected.GET("/user", userHandler.GetMe)
	protected.PUT("/user", userHandler.UpdateMe)
	protected.POST("/user/password", userHandler.ChangePassword)

	txnHandler := handler.NewTransactionHandler(svc)
	statsHandler := handler.NewStatsHandler(svc)
	protected.GET("/transactions", txnHandler.ListTransactions)
	protected.POST("/transactions", txnHandler.CreateTransaction)
	protected.DELETE("/transactions", txnHandler.DeleteTransaction)
	protected.GET("/transactions/stats", statsHandler.GetStats)
	protected.DELETE("/transactions/:id", txnHandler.DeleteTransaction)
	protected.GET("/stats/monthly", statsHandler.GetMonthlyStats)
	protected.GET("/networth", statsHandler.GetNetWorth)

	accountHandler := handler.NewAccountHandler(svc)
	protected.GET("/accounts", accountHandler.ListAccounts)
	protected.POST("/accounts", accountHandler.CreateAccount)
	protected.PUT("/accounts/:id", accountHandler.UpdateAccount)
	protected.DELETE("/accounts/:id", accountHandler.DeleteAccount)
	protected.GET("/accounts/:id/reconcile", accountHandler.Reconcile)

	categoryHandler := handler.NewCategoryHandler(svc)
	protected.GET("/categories", categoryHandler.ListCategories)
	protected.POST("/categories", categoryHandler.CreateCategory)
	protected.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	assetHandler := handler.NewAssetHandler(svc)
	protected.GET("/assets", assetHandler.ListAssets)
	protected.POST("/assets", assetHandler.CreateAsset)
	protected.PUT("/assets/:id", assetHandler.UpdateAsset)
	protected.DELETE("/assets/:id", assetHandler.DeleteAsset)

	backupHandler := handler.NewBackupHandler(svc, cfg.Security.EncryptionKey, cfg.Backup.Dir)
	protected.POST("/backups", backupHandler.CreateBackup)
	protected.GET("/backups", backupHandler.ListBackups)
	protected.GET("/backups/:id/download", backupHandler.DownloadBackup)
	protected.POST("/backups/:id/restore", backupHandler.RestoreBackup)
	protected.DELETE("/backups/:id", backupHandler.DeleteBackup)

	exportHandler := handler.NewExportHandler(svc)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)
	protected.GET("/export/pdf", exportHandler.ExportPDF)

	return r
}
