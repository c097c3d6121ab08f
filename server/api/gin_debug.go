//go:build !release
// +build !release

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/yeti47/vidfolio/server/core/config"
)

// initializeGin sets up Gin in debug mode for development builds
func initializeGin(_ *config.Config) *gin.Engine {
	router := gin.New()

	// development builds trust all proxies
	router.Use(gin.Logger())

	return router
}
