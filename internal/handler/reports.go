package handler

import (
	"net/http"

	"care-daily/internal/logger"
	"care-daily/internal/model"
	"care-daily/internal/service"
	"care-daily/internal/storage"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	store   *storage.Store
	reports *service.ReportService
}

func NewReportHandler(store *storage.Store, reports *service.ReportService) *ReportHandler {
	return &ReportHandler{store: store, reports: reports}
}

// List filters on business date with optional ?from= and ?to= bounds,
// both inclusive, both YYYY-MM-DD.
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.store.Reports.List(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *ReportHandler) Add(c *gin.Context) {
	var r model.DailyReport
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	saved, err := h.reports.Submit(c.Request.Context(), r)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("report.submitted", "id", saved.ID, "date", saved.BusinessDate, "staff", saved.StaffName)
	c.JSON(http.StatusCreated, saved)
}

func (h *ReportHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var r model.DailyReport
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	saved, err := h.store.Reports.Update(c.Request.Context(), id, r)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *ReportHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.Reports.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
