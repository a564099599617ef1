package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nadart/gallery/internal/config"
	"github.com/nadart/gallery/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.AppConfig, api *handler.API) *gin.Engine {
	r := gin.Default()

	// 跨域配置，只放行站点自己的前端
	if len(cfg.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
		r.Use(cors.New(corsConfig))
	}

	// 图片静态目录：/galleries/<folder>/<originals|thumbnails>/<file>
	r.Static("/galleries", cfg.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	apiGroup := r.Group("/api")
	{
		// 公开只读接口
		apiGroup.GET("/galleries", api.ListGalleries)
		apiGroup.GET("/galleries/main", api.GetMainGallery)
		apiGroup.GET("/galleries/:slug", api.GetGalleryBySlug)
		apiGroup.GET("/paintings", api.ListPaintings)
		apiGroup.GET("/paintings/:id", api.GetPainting)
		apiGroup.GET("/resume", api.GetResume)
		apiGroup.GET("/resume/timeline", api.ListTimelineEntries)
		apiGroup.GET("/resume/expertise", api.ListExpertiseAreas)

		// 认证接口，登录相关做限流
		authGroup := apiGroup.Group("/auth")
		authGroup.Use(handler.RateLimit(90*time.Second, 10))
		{
			authGroup.POST("/login", api.Login)
			authGroup.POST("/google", api.GoogleLogin)
			authGroup.POST("/forgot-password", api.ForgotPassword)
			authGroup.POST("/reset-password", api.ResetPassword)
		}

		// 需要认证的管理接口
		admin := apiGroup.Group("")
		admin.Use(api.AuthRequired())
		{
			admin.GET("/auth/me", api.Me)
			admin.POST("/auth/logout", api.Logout)
			admin.POST("/auth/change-password", api.ChangePassword)

			admin.POST("/galleries", api.CreateGallery)
			admin.PUT("/galleries/reorder", api.ReorderGalleries)
			admin.PUT("/galleries/:id", api.UpdateGallery)
			admin.DELETE("/galleries/:id", api.DeleteGallery)

			admin.POST("/paintings", api.CreatePainting)
			admin.PUT("/paintings/reorder", api.ReorderPaintings)
			admin.PUT("/paintings/:id", api.UpdatePainting)
			admin.DELETE("/paintings/:id", api.DeletePainting)
			admin.PUT("/paintings/:id/visibility", api.TogglePaintingVisibility)
			admin.PUT("/paintings/:id/move", api.MovePainting)

			admin.PUT("/resume/content/:key", api.UpdateResumeContent)
			admin.POST("/resume/timeline", api.CreateTimelineEntry)
			admin.PUT("/resume/timeline/:id", api.UpdateTimelineEntry)
			admin.DELETE("/resume/timeline/:id", api.DeleteTimelineEntry)
			admin.POST("/resume/expertise", api.CreateExpertiseArea)
			admin.PUT("/resume/expertise/:id", api.UpdateExpertiseArea)
			admin.DELETE("/resume/expertise/:id", api.DeleteExpertiseArea)
		}
	}

	return r
}
