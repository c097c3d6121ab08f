package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeti47/vidfolio/server/api/handlers"
	"github.com/yeti47/vidfolio/server/api/middleware"
	"github.com/yeti47/vidfolio/server/core/bootstrap"
	"github.com/yeti47/vidfolio/server/core/ccc/auth"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/config"
	"github.com/yeti47/vidfolio/server/core/uploads"
)

func main() {
	// Load configuration from default path in user's home directory
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Save the config in case it was not found or updated
	if err := cfg.SaveConfig(""); err != nil {
		log.Printf("Failed to save configuration: %v", err)
	}

	logger := logging.CreateLogger(logging.ParseLogLevel(cfg.LogLevel), cfg.LogPath, "api")
	logger.Info("Starting api server", "port", cfg.APIPort)

	services, err := bootstrap.Open(context.Background(), cfg, logger, true)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	defer services.Close()

	videoHandler := handlers.NewVideoHandler(logger, services.Catalog, services.Featured)
	uploadHandler := handlers.NewUploadHandler(logger, services.Uploads)
	requestLogger := middleware.NewRequestLogger(logger)

	// Writes need the dashboard admin password
	failureTracker := auth.NewMemoryFailureTracker(auth.LockoutSettings{
		Threshold:  cfg.Auth.FailureThreshold,
		TimeWindow: time.Duration(cfg.Auth.FailureWindowMinutes) * time.Minute,
	})
	authMiddleware := middleware.NewAuthMiddleware(logger, services.Passwords, failureTracker)

	router := initializeGin(cfg)
	router.Use(requestLogger.Handle())
	router.Use(gin.Recovery())

	setupRoutes(router, videoHandler, uploadHandler, authMiddleware)

	addr := fmt.Sprintf(":%d", cfg.APIPort)
	logger.Info("Server listening", "address", addr)

	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

// setupRoutes configures the HTTP routes
func setupRoutes(router *gin.Engine, videoHandler *handlers.VideoHandler, uploadHandler *handlers.UploadHandler, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// Public reads
	api.GET("/videos", videoHandler.ListVideos)
	api.GET("/videos/:id", videoHandler.GetVideo)
	api.GET("/featured", videoHandler.GetFeatured)

	// Authenticated writes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/videos", videoHandler.CreateVideo)
		protected.PUT("/videos/:id", videoHandler.UpdateVideo)
		protected.DELETE("/videos/:id", videoHandler.DeleteVideo)
		protected.POST("/upload", uploadHandler.Upload)
	}

	// uploaded files are served under the paths /api/upload returns
	router.GET("/videos/:file", uploadHandler.ServeFile(uploads.KindVideo))
	router.GET("/thumbnails/:file", uploadHandler.ServeFile(uploads.KindThumbnail))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "api",
		})
	})
}
