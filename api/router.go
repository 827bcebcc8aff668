package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/mediagrab/api/handlers"
	"github.com/yourusername/mediagrab/api/middleware"
	"github.com/yourusername/mediagrab/internal/app"
	"github.com/yourusername/mediagrab/internal/domain"
)

// SetupRouter sets up the HTTP router
func SetupRouter(
	manager *app.Manager,
	history domain.HistoryStore,
	cfg *domain.Config,
	log *zap.Logger,
) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(manager, cfg.Extractor.Binary)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Download endpoints
		downloadHandler := handlers.NewDownloadHandler(manager, log)
		progressHandler := handlers.NewProgressWebSocketHandler(manager, log)
		downloads := v1.Group("/downloads")
		{
			downloads.POST("", downloadHandler.AddDownload)
			downloads.GET("", downloadHandler.ListDownloads)
			downloads.GET("/stats", downloadHandler.GetStats)
			downloads.GET("/:id", downloadHandler.GetDownload)
			downloads.POST("/:id/cancel", downloadHandler.CancelDownload)
			downloads.POST("/:id/retry", downloadHandler.RetryDownload)
			downloads.GET("/:id/progress", progressHandler.HandleWebSocket)
		}

		// Attribution history
		historyHandler := handlers.NewHistoryHandler(history, log)
		v1.GET("/history", historyHandler.ListHistory)
	}

	return router
}
