package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/yeti47/vidfolio/server/core/bootstrap"
	"github.com/yeti47/vidfolio/server/core/ccc/auth"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/config"
	"github.com/yeti47/vidfolio/server/core/media"
	"github.com/yeti47/vidfolio/server/core/notifications"
	dashboard_sessions "github.com/yeti47/vidfolio/server/dashboard/sessions"
	"github.com/yeti47/vidfolio/server/dashboard/web"
	"github.com/yeti47/vidfolio/server/dashboard/web/handlers"
	"github.com/yeti47/vidfolio/server/dashboard/web/middleware"
)

// dashboardHandlers groups everything setupRoutes mounts
type dashboardHandlers struct {
	auth       *handlers.AuthHandler
	gallery    *handlers.GalleryHandler
	admin      *handlers.AdminHandler
	profile    *handlers.ProfileHandler
	media      *handlers.MediaHandler
	middleware *middleware.AuthMiddleware
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// try to save the config in case it was not found
	if err := cfg.SaveConfig(""); err != nil {
		log.Printf("Failed to save configuration: %v", err)
	}

	logger := logging.CreateLogger(logging.ParseLogLevel(cfg.LogLevel), cfg.LogPath, "dashboard")

	services, err := bootstrap.Open(context.Background(), cfg, logger, false)
	if err != nil {
		logger.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}
	defer services.Close()

	// Set up session store
	sessionKey, err := dashboard_sessions.GetOrCreateSessionKey(config.AppDir())
	if err != nil {
		logger.Error("Failed to get or create session key", "error", err)
		os.Exit(1)
	}
	sessionStore := sessions.NewCookieStore(sessionKey)
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	sessionFactory := dashboard_sessions.NewAuthSessionFactory(sessionStore)

	// Login lockout and alerting
	failureWindow := time.Duration(cfg.Auth.FailureWindowMinutes) * time.Minute
	failureTracker := auth.NewMemoryFailureTracker(auth.LockoutSettings{
		Threshold:  cfg.Auth.FailureThreshold,
		TimeWindow: failureWindow,
	})
	authNotifier := notifications.NewEmailAuthNotifier(notifications.AuthNotificationSettings{
		Recipient:        cfg.Auth.NotifyRecipient,
		MinInterval:      failureWindow,
		FailureThreshold: cfg.Auth.FailureThreshold,
	}, notifications.NewEmailSender(cfg.SMTP), logger)

	// Media served from the stored data URIs
	assetCache := media.NewAssetCache(cfg.MediaCacheBytes, logger)
	resolver := media.NewResolver(logger, services.Catalog, services.Profiles, assetCache)

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	router := initializeGin(cfg)
	router.Use(gin.Recovery())
	router.HTMLRender = renderer

	setupRoutes(router, dashboardHandlers{
		auth:       handlers.NewAuthHandler(logger, services.Passwords, sessionFactory, failureTracker, authNotifier),
		gallery:    handlers.NewGalleryHandler(logger, services.Featured, services.Profiles, sessionFactory),
		admin:      handlers.NewAdminHandler(logger, services.Controller, services.Catalog, sessionFactory),
		profile:    handlers.NewProfileHandler(logger, services.Profiles, sessionFactory),
		media:      handlers.NewMediaHandler(logger, resolver),
		middleware: middleware.NewAuthMiddleware(logger, services.Passwords, sessionFactory),
	})

	addr := fmt.Sprintf("%s:%d", cfg.WebAddr, cfg.WebPort)
	logger.Info("Starting server on " + addr)
	if err := router.Run(addr); err != nil {
		logger.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}

func setupRoutes(router *gin.Engine, h dashboardHandlers) {
	router.StaticFS("/static", http.FS(web.StaticFiles()))

	// Public portfolio
	router.GET("/", h.gallery.ShowGallery)
	router.GET("/placeholder.svg", h.gallery.Placeholder)
	router.GET("/media/:id/:role", h.media.GetVideoMedia)
	router.GET("/profile-media/:slot", h.media.GetProfileMedia)

	// Public routes (authentication)
	authGroup := router.Group("/auth")
	{
		authGroup.GET("/login", h.middleware.RedirectIfAuth, h.auth.ShowLogin)
		authGroup.POST("/login", h.auth.Login)
		authGroup.GET("/setup", h.auth.ShowSetup)
		authGroup.POST("/setup", h.auth.Setup)
		authGroup.GET("/logout", h.auth.Logout)
	}

	// Authenticated routes
	adminGroup := router.Group("/admin")
	adminGroup.Use(h.middleware.RequireAuth)
	{
		adminGroup.GET("", h.admin.ShowAdmin)
		adminGroup.POST("/videos", h.admin.CreateVideo)
		adminGroup.GET("/videos/:id/edit", h.admin.ShowEdit)
		adminGroup.POST("/videos/:id/edit", h.admin.SaveEdit)
		adminGroup.GET("/videos/:id/delete", h.admin.ShowDelete)
		adminGroup.POST("/videos/:id/delete", h.admin.ConfirmDelete)

		adminGroup.GET("/profile-images", h.profile.ShowProfileImages)
		adminGroup.POST("/profile-images/:slot", h.profile.UploadProfileImage)
		adminGroup.POST("/profile-images/:slot/clear", h.profile.ClearProfileImage)

		adminGroup.GET("/password", h.auth.ShowChangePassword)
		adminGroup.POST("/password", h.auth.ChangePassword)
	}
}
