package handler

import (
	"net/http"

	"care-daily/internal/model"
	"care-daily/internal/storage"

	"github.com/gin-gonic/gin"
)

type TagHandler struct{ store *storage.Store }

func NewTagHandler(store *storage.Store) *TagHandler { return &TagHandler{store: store} }

// List returns all tags, or one category via ?type=learning|free_play|group_play.
func (h *TagHandler) List(c *gin.Context) {
	tagType := model.TagType(c.Query("type"))
	if tagType != "" && !tagType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tag type"})
		return
	}
	tags, err := h.store.Tags.List(c.Request.Context(), tagType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) Add(c *gin.Context) {
	var t model.Tag
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	saved, err := h.store.Tags.Add(c.Request.Context(), t)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *TagHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.Tags.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
