package handler

import (
	"github.com/nadart/gallery/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	galleries *service.GalleryService
	paintings *service.PaintingService
	resume    *service.ResumeService
	auth      *service.AuthService
	tokens    *service.TokenManager
	google    GoogleVerifier
	maxUpload int64
}

// NewAPI constructs a handler set with shared services.
func NewAPI(
	db *gorm.DB,
	galleries *service.GalleryService,
	paintings *service.PaintingService,
	resume *service.ResumeService,
	auth *service.AuthService,
	tokens *service.TokenManager,
	google GoogleVerifier,
	maxUpload int64,
) *API {
	return &API{
		db:        db,
		galleries: galleries,
		paintings: paintings,
		resume:    resume,
		auth:      auth,
		tokens:    tokens,
		google:    google,
		maxUpload: maxUpload,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
