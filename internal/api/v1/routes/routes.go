package routes

import (
	"github.com/gin-gonic/gin"
	"whisper-api/internal/api/v1/handlers"
	"whisper-api/internal/api/v1/services"
)

// ServiceContainer holds the services the v1 routes depend on.
type ServiceContainer struct {
	TranscriptionService services.TranscriptionService
	// UploadMaxBytes bounds POST /transcribe bodies; zero disables the limit.
	UploadMaxBytes int64
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	router.GET("/health", handlers.Health)

	transcriptionHandler := handlers.NewTranscriptionHandler(container.TranscriptionService, container.UploadMaxBytes)
	router.POST("/transcribe", transcriptionHandler.Transcribe)
}
