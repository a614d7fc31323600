package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"care-daily/internal/config"
	"care-daily/internal/middleware"
	"care-daily/internal/model"
	"care-daily/internal/service"
	"care-daily/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) (*gin.Engine, *storage.Store) {
	t.Helper()
	return newTestRouterAt(t, t.TempDir())
}

func newTestRouterAt(t *testing.T, dir string) (*gin.Engine, *storage.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Auth: config.AuthConfig{Secret: testSecret, TokenTTLHours: 24},
		Storage: config.StorageConfig{
			Dir:       dir,
			Backups:   config.BackupConfig{Retain: 5, MinIntervalHours: 24},
			Integrity: config.IntegrityConfig{MaxInvalidFraction: 0.5},
		},
	}
	st, err := storage.Open(cfg)
	require.NoError(t, err)

	authSvc := service.NewAuthService(st)
	reportSvc := service.NewReportService(st)
	exportSvc := service.NewExportService(st)

	authH := NewAuthHandler(authSvc, cfg.Auth)
	userH := NewUserHandler(st)
	reportH := NewReportHandler(st, reportSvc)
	adminH := NewAdminHandler(st, authSvc, exportSvc)

	r := gin.New()
	r.POST("/api/login", authH.Login)
	api := r.Group("/api", middleware.JWTAuth([]byte(testSecret)))
	api.POST("/password", authH.ChangePassword)
	api.GET("/users", userH.List)
	api.POST("/users", userH.Add)
	api.PUT("/users", userH.Reorder)
	api.DELETE("/users/:id", userH.Delete)
	api.POST("/reports", reportH.Add)
	api.GET("/admin/backups", adminH.ListBackups)
	api.GET("/admin/export", adminH.Export)

	_, err = authSvc.CreateAccount(context.Background(), "staff01", "hunter2", "佐藤")
	require.NoError(t, err)
	return r, st
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/login", "", model.LoginRequest{UserID: "staff01", Password: "hunter2"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "staff01", resp.Staff.UserID)
	return resp.Token
}

func TestLoginAndProtectedRoutes(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/login", "", model.LoginRequest{UserID: "staff01", Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	require.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodGet, "/api/users", "", nil).Code)
	require.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodGet, "/api/users", "garbage", nil).Code)

	token := login(t, r)
	require.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/api/users", token, nil).Code)
}

func TestUserEndpoints(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)
	token := login(t, r)

	// Classification defaults when omitted.
	w := doJSON(r, http.MethodPost, "/api/users", token, gin.H{"name": "山田太郎"})
	require.Equal(t, http.StatusCreated, w.Code)
	var u model.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	require.Equal(t, model.ClassificationAfterSchool, u.Classification)

	// Duplicate name reports the offending field.
	w = doJSON(r, http.MethodPost, "/api/users", token, gin.H{"name": "山田太郎"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "name")

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodDelete, "/api/users/1", token, nil).Code)
	require.Equal(t, http.StatusNotFound, doJSON(r, http.MethodDelete, "/api/users/42", token, nil).Code)
	require.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodDelete, "/api/users/zero", token, nil).Code)

	// Soft-deleted users still appear unless filtered out.
	w = doJSON(r, http.MethodGet, "/api/users?active_only=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "[]", w.Body.String())
}

func TestUserReorderEndpoint(t *testing.T) {
	t.Parallel()
	r, st := newTestRouter(t)
	token := login(t, r)

	var ids []int
	for _, name := range []string{"山田太郎", "鈴木花子"} {
		w := doJSON(r, http.MethodPost, "/api/users", token, gin.H{"name": name})
		require.Equal(t, http.StatusCreated, w.Code)
		var u model.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
		ids = append(ids, u.ID)
	}

	w := doJSON(r, http.MethodPut, "/api/users", token, model.ReorderUsersRequest{UserIDs: []int{ids[1], ids[0]}})
	require.Equal(t, http.StatusOK, w.Code)

	users, err := st.Users.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, ids[1], users[0].ID)
	require.Equal(t, ids[0], users[1].ID)

	require.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPut, "/api/users", token, gin.H{}).Code)
}

func TestReportSubmission(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)
	token := login(t, r)

	w := doJSON(r, http.MethodPost, "/api/reports", token, gin.H{
		"business_date": "2026-04-01",
		"staff_name":    "佐藤",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/reports", token, gin.H{"business_date": "04/01"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangePasswordEndpoint(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)
	token := login(t, r)

	w := doJSON(r, http.MethodPost, "/api/password", token, model.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "next"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/password", token, model.ChangePasswordRequest{OldPassword: "hunter2", NewPassword: "next"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/login", "", model.LoginRequest{UserID: "staff01", Password: "next"})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBackupEndpointsLocalOnly(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)
	token := login(t, r)

	w := doJSON(r, http.MethodGet, "/api/admin/backups", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestExportEndpoint(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)
	token := login(t, r)

	w := doJSON(r, http.MethodGet, "/api/admin/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	require.NotZero(t, w.Body.Len())
}

func TestExportFailureReturnsErrorStatus(t *testing.T) {
	t.Parallel()

	// An unreadable collection with no usable backup makes the export
	// fail; the client must see the failure, not a truncated archive.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tags_master.json"), []byte("{{{ not json"), 0o644))

	r, _ := newTestRouterAt(t, dir)
	token := login(t, r)

	w := doJSON(r, http.MethodGet, "/api/admin/export", token, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotEqual(t, "application/zip", w.Header().Get("Content-Type"))
}
