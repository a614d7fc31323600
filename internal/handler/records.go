package handler

import (
	"net/http"

	"care-daily/internal/model"
	"care-daily/internal/storage"

	"github.com/gin-gonic/gin"
)

type RecordHandler struct{ store *storage.Store }

func NewRecordHandler(store *storage.Store) *RecordHandler { return &RecordHandler{store: store} }

// List returns attendance records, narrowed to one day via ?date=.
func (h *RecordHandler) List(c *gin.Context) {
	records, err := h.store.Records.List(c.Request.Context(), c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *RecordHandler) Add(c *gin.Context) {
	var r model.DailyUserRecord
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	saved, err := h.store.Records.Add(c.Request.Context(), r)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *RecordHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var r model.DailyUserRecord
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	saved, err := h.store.Records.Update(c.Request.Context(), id, r)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *RecordHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.Records.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
