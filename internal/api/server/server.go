package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	_ "whisper-api/docs" // Generated swagger docs
	apierrors "whisper-api/internal/api/errors"
	"whisper-api/internal/api/middleware"
	v1routes "whisper-api/internal/api/v1/routes"
	"whisper-api/internal/api/v1/services"
	"whisper-api/internal/app/metrics"
	"whisper-api/internal/config"
)

const healthPath = "/api/v1/health"

// Server represents the API server
type Server struct {
	config     *config.Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer creates a new API server
func NewServer(
	cfg *config.Config,
	transcriptionService services.TranscriptionService,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *Server {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Apply global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger, healthPath))
	router.Use(middleware.Metrics(m))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           600,
	}))

	router.NoRoute(func(c *gin.Context) {
		middleware.HandleError(c, apierrors.NewNotFoundError("Route"))
	})

	// Register API routes
	api := router.Group("/api")
	{
		v1 := api.Group("/v1")
		v1routes.RegisterRoutes(v1, &v1routes.ServiceContainer{
			TranscriptionService: transcriptionService,
			UploadMaxBytes:       cfg.Upload.MaxBytes,
		})
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Swagger documentation routes
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		config:     cfg,
		router:     router,
		httpServer: httpServer,
		logger:     logger,
	}
}

// Start serves until the listener fails or Shutdown is called. The returned
// channel receives the terminal error, if any, and is then closed.
func (s *Server) Start() <-chan error {
	s.logger.Info("starting API server",
		zap.String("address", s.httpServer.Addr),
		zap.String("environment", s.config.Server.Environment),
		zap.String("backend", s.config.Speech.Backend),
	)

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server stopped", zap.Error(err))
			errCh <- err
		}
	}()
	return errCh
}

// Shutdown gracefully shuts down the server. In-flight transcriptions are
// allowed to finish until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
