package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/nadart/gallery/internal/config"
	"github.com/nadart/gallery/internal/db"
	"github.com/nadart/gallery/internal/handler"
	"github.com/nadart/gallery/internal/router"
	"github.com/nadart/gallery/internal/service"
	"github.com/nadart/gallery/internal/storage"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 确保管理员账号存在
	if cfg.AdminPassword != "" {
		if err := db.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("failed to ensure admin user: %v", err)
		}
	}

	store := storage.NewImageStore(cfg.UploadDir)
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	api := handler.NewAPI(
		db.DB,
		service.NewGalleryService(db.DB, store),
		service.NewPaintingService(db.DB, store),
		service.NewResumeService(db.DB),
		service.NewAuthService(db.DB, tokens, cfg.AdminEmail),
		tokens,
		handler.NewIDTokenVerifier(cfg.GoogleClientID),
		cfg.MaxUploadBytes,
	)

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(cfg, api)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
