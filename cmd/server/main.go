package main

import (
	"flag"
	"log/slog"
	"os"

	"care-daily/internal/config"
	"care-daily/internal/handler"
	"care-daily/internal/logger"
	"care-daily/internal/middleware"
	"care-daily/internal/service"
	"care-daily/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	store, err := storage.Open(cfg)
	if err != nil {
		slog.Error("storage open failed", "err", err)
		os.Exit(1)
	}

	authSvc := service.NewAuthService(store)
	reportSvc := service.NewReportService(store)
	exportSvc := service.NewExportService(store)

	authH := handler.NewAuthHandler(authSvc, cfg.Auth)
	userH := handler.NewUserHandler(store)
	reportH := handler.NewReportHandler(store, reportSvc)
	meetingH := handler.NewMeetingHandler(store)
	tagH := handler.NewTagHandler(store)
	recordH := handler.NewRecordHandler(store)
	adminH := handler.NewAdminHandler(store, authSvc, exportSvc)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.POST("/api/login", authH.Login)

	api := r.Group("/api", middleware.JWTAuth([]byte(cfg.Auth.Secret)))
	api.POST("/password", authH.ChangePassword)

	api.GET("/users", userH.List)
	api.POST("/users", userH.Add)
	api.PUT("/users", userH.Reorder)
	api.PUT("/users/:id", userH.Update)
	api.DELETE("/users/:id", userH.Delete)
	api.POST("/users/:id/restore", userH.Restore)

	api.GET("/reports", reportH.List)
	api.POST("/reports", reportH.Add)
	api.PUT("/reports/:id", reportH.Update)
	api.DELETE("/reports/:id", reportH.Delete)

	api.GET("/meetings", meetingH.List)
	api.POST("/meetings", meetingH.Add)
	api.PUT("/meetings/:id", meetingH.Update)
	api.DELETE("/meetings/:id", meetingH.Delete)

	api.GET("/tags", tagH.List)
	api.POST("/tags", tagH.Add)
	api.DELETE("/tags/:id", tagH.Delete)

	api.GET("/records", recordH.List)
	api.POST("/records", recordH.Add)
	api.PUT("/records/:id", recordH.Update)
	api.DELETE("/records/:id", recordH.Delete)

	api.GET("/admin/staff", adminH.ListStaff)
	api.POST("/admin/staff", adminH.CreateStaff)
	api.DELETE("/admin/staff/:id", adminH.DeleteStaff)
	api.GET("/admin/backups", adminH.ListBackups)
	api.POST("/admin/backups", adminH.CreateBackup)
	api.POST("/admin/backups/restore", adminH.RestoreBackup)
	api.GET("/admin/export", adminH.Export)

	slog.Info("server starting", "addr", cfg.Addr(), "storage", store.Mode().String())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
