package handler

import (
	"net/http"
	"time"

	"care-daily/internal/config"
	"care-daily/internal/logger"
	"care-daily/internal/model"
	"care-daily/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type AuthHandler struct {
	auth   *service.AuthService
	secret []byte
	ttl    time.Duration
}

func NewAuthHandler(auth *service.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		secret: []byte(cfg.Secret),
		ttl:    time.Duration(cfg.TokenTTLHours) * time.Hour,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	a, err := h.auth.Login(c.Request.Context(), req.UserID, req.Password)
	if err != nil {
		logger.Warn("login.failed", "user_id", req.UserID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	logger.Info("login.ok", "user_id", a.UserID, "name", a.DisplayName)

	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  a.UserID,
		"name": a.DisplayName,
		"exp":  time.Now().Add(h.ttl).Unix(),
	}).SignedString(h.secret)

	c.JSON(http.StatusOK, model.LoginResponse{Token: token, Staff: a.View()})
}

// ChangePassword lets the authenticated account rotate its own password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID := c.GetString("staff_user_id")
	if err := h.auth.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	logger.Info("password.changed", "user_id", userID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
