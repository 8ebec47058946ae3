package http

import (
	"context"

	"github.com/gin-gonic/gin"

	"genweb/internal/ai"
	appsvc "genweb/internal/app"
	"genweb/internal/asset"
	"genweb/internal/bootstrap"
	"genweb/internal/config"
	"genweb/internal/platform/rabbitmq"
	"genweb/internal/platform/redis"
	"genweb/internal/project"
	"genweb/internal/repository"
	"genweb/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.StaticFile("/", "web/index.html")
	router.GET("/healthz", healthHandler.Check)

	assetStore := asset.NewStore(
		app.Config.Assets.MaxAssetSizeBytes,
		app.Config.Assets.AllowedExtensions,
	)
	historyStore := redis.NewHistoryStore(app.Redis, app.Config.Storage.HistoryKey)
	projectStore := project.NewStore(context.Background(), historyStore)

	provider := newProviderRouter(app.Config)
	publisher := rabbitmq.NewMessagePublisher(app.MQConn, app.Config.RabbitMQ.MessageArchiveQueue)
	messageRepo := repository.NewMessageRepository(app.MySQL)

	workspace := appsvc.NewWorkspace(assetStore, projectStore, provider, publisher, appsvc.GenerationSettings{
		DefaultModel: app.Config.LLM.DefaultModel,
		MaxTokens:    app.Config.LLM.MaxTokens,
		Temperature:  app.Config.LLM.Temperature,
		MaxContext:   app.Config.LLM.MaxContextMessage,
		MaxImageSize: app.Config.Assets.MaxImageSizeBytes,
		AutoEnhance:  app.Config.LLM.AutoEnhance,
	})

	chatHandler := handler.NewChatHandler(workspace, messageRepo)
	settingsHandler := handler.NewSettingsHandler(app.Config)
	assetHandler := handler.NewAssetHandler(assetStore)
	projectHandler := handler.NewProjectHandler(workspace)
	exportHandler := handler.NewExportHandler(workspace)

	v1 := router.Group("/api/v1")

	chatGroup := v1.Group("/chat")
	chatGroup.POST("/messages", chatHandler.SendMessage)
	chatGroup.GET("/history", chatHandler.GetHistory)
	chatGroup.POST("/new", chatHandler.NewChat)
	chatGroup.GET("/archive", chatHandler.GetArchive)

	assetGroup := v1.Group("/assets")
	assetGroup.POST("", assetHandler.Upload)
	assetGroup.GET("", assetHandler.List)
	assetGroup.DELETE("", assetHandler.Clear)

	projectGroup := v1.Group("/projects")
	projectGroup.POST("", projectHandler.Save)
	projectGroup.GET("", projectHandler.List)
	projectGroup.POST("/:id/load", projectHandler.Load)
	projectGroup.DELETE("/:id", projectHandler.Delete)

	v1.GET("/settings", settingsHandler.Get)
	v1.GET("/preview", exportHandler.Preview)
	v1.GET("/export/single", exportHandler.ExportSingle)
	v1.GET("/export/files", exportHandler.ExportFiles)
	v1.GET("/export/files/:name", exportHandler.ExportFile)

	return router
}

// newProviderRouter builds the model table and the two provider clients.
func newProviderRouter(cfg *config.Config) *ai.Router {
	models := make([]ai.ModelInfo, 0, len(cfg.LLM.Models))
	for _, m := range cfg.LLM.Models {
		models = append(models, ai.ModelInfo{
			ID:       m.ID,
			Name:     m.Name,
			Provider: m.Provider,
			APIKey:   m.APIKey,
		})
	}

	gemini := ai.NewGeminiClient(cfg.LLM.GeminiBaseURL, cfg.LLM.GeminiAPIKey)
	openRouter := ai.NewOpenRouterClient(cfg.LLM.OpenRouterURL, cfg.LLM.OpenRouterAPIKey)
	return ai.NewRouter(models, gemini, openRouter)
}
