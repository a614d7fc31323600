package handler

import (
	"net/http"

	"care-daily/internal/logger"
	"care-daily/internal/model"
	"care-daily/internal/storage"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{ store *storage.Store }

func NewUserHandler(store *storage.Store) *UserHandler { return &UserHandler{store: store} }

// List returns the full master including soft-deleted users; pass
// ?active_only=true to get only the active ones.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.store.Users.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if c.Query("active_only") == "true" {
		active := users[:0]
		for _, u := range users {
			if u.Active {
				active = append(active, u)
			}
		}
		users = active
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Add(c *gin.Context) {
	var u model.User
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if u.Classification == "" {
		u.Classification = model.ClassificationAfterSchool
	}
	saved, err := h.store.Users.Add(c.Request.Context(), u)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("user.added", "id", saved.ID, "name", saved.Name)
	c.JSON(http.StatusCreated, saved)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var u model.User
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	saved, err := h.store.Users.Update(c.Request.Context(), id, u)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// Delete soft-deletes by default; ?hard=true removes the record for
// good, including its history of being deleted.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var err error
	if c.Query("hard") == "true" {
		err = h.store.Users.Purge(c.Request.Context(), id)
	} else {
		err = h.store.Users.Delete(c.Request.Context(), id)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("user.deleted", "id", id, "hard", c.Query("hard") == "true")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Reorder takes the full desired id sequence and rewrites the master's
// display order to match it.
func (h *UserHandler) Reorder(c *gin.Context) {
	var req model.ReorderUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.store.Users.Reorder(c.Request.Context(), req.UserIDs); err != nil {
		writeError(c, err)
		return
	}
	logger.Info("users.reordered", "count", len(req.UserIDs))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *UserHandler) Restore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.Users.Restore(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	logger.Info("user.restored", "id", id)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
