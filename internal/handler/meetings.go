package handler

import (
	"net/http"

	"care-daily/internal/model"
	"care-daily/internal/storage"

	"github.com/gin-gonic/gin"
)

type MeetingHandler struct{ store *storage.Store }

func NewMeetingHandler(store *storage.Store) *MeetingHandler { return &MeetingHandler{store: store} }

func (h *MeetingHandler) List(c *gin.Context) {
	meetings, err := h.store.Meetings.List(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, meetings)
}

func (h *MeetingHandler) Add(c *gin.Context) {
	var m model.MorningMeeting
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	saved, err := h.store.Meetings.Add(c.Request.Context(), m)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *MeetingHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var m model.MorningMeeting
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	saved, err := h.store.Meetings.Update(c.Request.Context(), id, m)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *MeetingHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.Meetings.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
