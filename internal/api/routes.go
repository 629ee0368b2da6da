package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"resumeStudio/internal/config"
	"resumeStudio/internal/storage"
)

// RegisterRoutes 注册 API 路由，不包含 /api 前缀。
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	asynqClient *asynq.Client,
	redisClient *redis.Client,
	logger *slog.Logger,
	storageClient *storage.Client,
) {
	templateID := cfg.API.TemplateID

	sectionHandler := NewSectionHandler(db, templateID)
	extractHandler := NewExtractHandler(cfg.Extract.ClamdAddr, cfg.Extract.MaxBytes, cfg.Extract.AllowedMIME(), redisClient, cfg.Extract.DailyLimit)
	arrangementHandler := NewArrangementHandler(templateID)
	templateHandler := NewTemplateHandler(db, asynqClient, storageClient, templateID, cfg.Export.LinkTTL)
	handoffHandler := NewHandoffHandler(newRedisHandoffStore(redisClient), cfg.Handoff.TTL, templateID)
	wsHandler := NewWsHandler(redisClient, logger, cfg.API.Origins())

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		sectionGroup := v1.Group("/sections")
		{
			sectionGroup.POST("", sectionHandler.CreateSection)
			sectionGroup.GET("", sectionHandler.ListSections)
			sectionGroup.GET("/fields/:type", sectionHandler.GetFields)
			sectionGroup.POST("/fields/:type/validate", sectionHandler.ValidateFields)
		}

		v1.POST("/extract", extractHandler.Extract)

		v1.GET("/layouts/:templateId", arrangementHandler.GetLayout)
		arrangementGroup := v1.Group("/arrangements")
		{
			arrangementGroup.GET("/seed", arrangementHandler.Seed)
			arrangementGroup.POST("/apply", arrangementHandler.Apply)
			arrangementGroup.POST("/check", arrangementHandler.Check)
		}
		v1.POST("/pagination/estimate", arrangementHandler.EstimatePages)

		templateGroup := v1.Group("/templates")
		{
			templateGroup.POST("/validate", templateHandler.ValidateTemplate)
			templateGroup.POST("/import", templateHandler.ImportTemplate)
			templateGroup.POST("/export", templateHandler.ExportTemplate)
			templateGroup.POST("", templateHandler.CreateTemplate)
			templateGroup.GET("", templateHandler.ListTemplates)
			templateGroup.GET("/:id", templateHandler.GetTemplate)
			templateGroup.DELETE("/:id", templateHandler.DeleteTemplate)
			templateGroup.POST("/:id/export", templateHandler.EnqueueExport)
			templateGroup.GET("/:id/download-link", templateHandler.GetDownloadLink)
		}

		handoffGroup := v1.Group("/handoffs")
		{
			handoffGroup.POST("", handoffHandler.CreateHandoff)
			handoffGroup.GET("/:token", handoffHandler.ConsumeHandoff)
		}
	}
}
