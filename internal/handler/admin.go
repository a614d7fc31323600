package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"care-daily/internal/logger"
	"care-daily/internal/model"
	"care-daily/internal/service"
	"care-daily/internal/storage"

	"github.com/gin-gonic/gin"
)

// AdminHandler groups the maintenance surface: staff accounts, backup
// management and the full-data export.
type AdminHandler struct {
	store  *storage.Store
	auth   *service.AuthService
	export *service.ExportService
}

func NewAdminHandler(store *storage.Store, auth *service.AuthService, export *service.ExportService) *AdminHandler {
	return &AdminHandler{store: store, auth: auth, export: export}
}

func (h *AdminHandler) ListStaff(c *gin.Context) {
	staff, err := h.store.Staff.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]model.StaffView, 0, len(staff))
	for _, a := range staff {
		views = append(views, a.View())
	}
	c.JSON(http.StatusOK, views)
}

func (h *AdminHandler) CreateStaff(c *gin.Context) {
	var req model.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	a, err := h.auth.CreateAccount(c.Request.Context(), req.UserID, req.Password, req.DisplayName)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("staff.created", "user_id", a.UserID, "by", c.GetString("staff_user_id"))
	c.JSON(http.StatusCreated, a.View())
}

func (h *AdminHandler) DeleteStaff(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.Staff.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	logger.Info("staff.deleted", "id", id, "by", c.GetString("staff_user_id"))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) ListBackups(c *gin.Context) {
	b := h.store.Backups()
	if b == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "backups are only available with local storage"})
		return
	}
	infos, err := b.List()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, infos)
}

func (h *AdminHandler) CreateBackup(c *gin.Context) {
	b := h.store.Backups()
	if b == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "backups are only available with local storage"})
		return
	}
	name, err := b.Create()
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("backup.created", "name", name, "by", c.GetString("staff_user_id"))
	c.JSON(http.StatusCreated, gin.H{"name": name})
}

func (h *AdminHandler) RestoreBackup(c *gin.Context) {
	b := h.store.Backups()
	if b == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "backups are only available with local storage"})
		return
	}
	var req model.RestoreBackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := b.Restore(req.Name); err != nil {
		writeError(c, err)
		return
	}
	logger.Info("backup.restored", "name", req.Name, "by", c.GetString("staff_user_id"))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Export sends every collection as one zip download. The archive is
// built in memory first so a mid-export failure becomes an error
// response instead of a truncated 200.
func (h *AdminHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.export.ExportAll(c.Request.Context(), &buf); err != nil {
		logger.Error("export.failed", "err", err)
		writeError(c, err)
		return
	}
	name := fmt.Sprintf("care-daily-export-%s.zip", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}
