package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"finance-ledger/internal/ledger"
	"finance-ledger/internal/models"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BackupHandler 负责备份相关接口
type BackupHandler struct {
	Svc        *ledger.Service
	EncryptKey string
	BackupDir  string
}

// NewBackupHandler 构造函数
func NewBackupHandler(svc *ledger.Service, encryptKey, backupDir string) *BackupHandler {
	return &BackupHandler{
		Svc:        svc,
		EncryptKey: encryptKey,
		BackupDir:  backupDir,
	}
}

func backupView(b *models.Backup) gin.H {
	return gin.H{
		"id":         b.ID,
		"file_name":  b.FileName,
		"size":       b.Size,
		"created_at": b.CreatedAt,
	}
}

// CreateBackup 生成当前用户的加密备份文件
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	snap, err := h.Svc.Snapshot(c.Request.Context(), user.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		respondErr(c, fmt.Errorf("marshal snapshot: %w", err))
		return
	}

	enc, err := util.EncryptAES(h.EncryptKey, raw)
	if err != nil {
		respondErr(c, fmt.Errorf("encrypt snapshot: %w", err))
		return
	}

	if err := os.MkdirAll(h.BackupDir, 0o755); err != nil {
		respondErr(c, fmt.Errorf("create backup dir: %w", err))
		return
	}

	// 使用 uuid 作为文件名
	fileName := fmt.Sprintf("backup-%d-%s.bin", user.ID, uuid.New().String())
	filePath := filepath.Join(h.BackupDir, fileName)
	if err := os.WriteFile(filePath, enc, 0o600); err != nil {
		respondErr(c, fmt.Errorf("write backup: %w", err))
		return
	}

	backup := &models.Backup{
		UserID:   user.ID,
		FileName: fileName,
		FilePath: filePath,
		Size:     int64(len(enc)),
	}
	if err := h.Svc.SaveBackup(c.Request.Context(), backup); err != nil {
		_ = os.Remove(filePath)
		respondErr(c, err)
		return
	}

	slog.Info("backup created", "user_id", user.ID, "id", backup.ID, "size", backup.Size)
	util.Success(c, util.Response{"backup": backupView(backup)})
}

// ListBackups 列出当前用户已有的备份
func (h *BackupHandler) ListBackups(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.Svc.ListBackups(c.Request.Context(), user.ID)
	if err != nil {
		respondErr(c, err)
		return
	}

	items := make([]gin.H, 0, len(list))
	for i := range list {
		items = append(items, backupView(&list[i]))
	}
	util.Success(c, util.Response{"items": items})
}

// lookup loads the caller's backup named by the :id path parameter.
func (h *BackupHandler) lookup(c *gin.Context) (*models.User, *models.Backup, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, nil, false
	}
	id, ok := paramID(c, "id")
	if !ok {
		return nil, nil, false
	}
	backup, err := h.Svc.GetBackup(c.Request.Context(), user.ID, id)
	if err != nil {
		respondErr(c, err)
		return nil, nil, false
	}
	return user, backup, true
}

// DownloadBackup 下载指定备份文件
func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	_, backup, ok := h.lookup(c)
	if !ok {
		return
	}
	if _, err := os.Stat(backup.FilePath); err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "backup file is missing")
		return
	}
	c.FileAttachment(backup.FilePath, backup.FileName)
}

// DeleteBackup 删除备份记录及对应文件
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	user, backup, ok := h.lookup(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteBackup(c.Request.Context(), user.ID, backup.ID); err != nil {
		respondErr(c, err)
		return
	}
	// 记录删掉后文件就不可达了，删除失败只记日志
	if err := os.Remove(backup.FilePath); err != nil && !os.IsNotExist(err) {
		slog.Warn("remove backup file", "path", backup.FilePath, "error", err)
	}
	util.Success(c, util.Response{"success": true})
}

// RestoreBackup 从指定备份文件恢复当前用户的账本（账户、分类、记录、资产）
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	user, backup, ok := h.lookup(c)
	if !ok {
		return
	}

	// 读文件并解密
	encData, err := os.ReadFile(backup.FilePath)
	if err != nil {
		respondErr(c, fmt.Errorf("read backup: %w", err))
		return
	}
	raw, err := util.DecryptAES(h.EncryptKey, encData)
	if err != nil {
		badRequest(c, "backup cannot be decrypted with the configured key")
		return
	}

	var snap ledger.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		badRequest(c, "backup content is malformed")
		return
	}

	if err := h.Svc.Restore(c.Request.Context(), user.ID, &snap); err != nil {
		respondErr(c, err)
		return
	}

	slog.Info("backup restored", "user_id", user.ID, "id", backup.ID)
	util.Success(c, util.Response{
		"success":            true,
		"accounts_count":     len(snap.Accounts),
		"categories_count":   len(snap.Categories),
		"transactions_count": len(snap.Transactions),
		"assets_count":       len(snap.Assets),
	})
}
