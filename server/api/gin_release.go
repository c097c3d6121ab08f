//go:build release
// +build release

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/yeti47/vidfolio/server/core/config"
)

// initializeGin sets up Gin in release mode for production builds
func initializeGin(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if cfg.TrustedProxies != nil && len(cfg.TrustedProxies.API) > 0 {
		router.SetTrustedProxies(cfg.TrustedProxies.API)
	} else {
		// no proxies configured: trust none
		router.SetTrustedProxies(nil)
	}

	return router
}
