package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/yeti47/vidfolio/server/core/bootstrap"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/config"
)

type commandContext struct {
	configFlag *string

	servicesOnce sync.Once
	services     *bootstrap.Services
	servicesErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

// ensureServices loads the configuration and opens the shared store once per invocation
func (c *commandContext) ensureServices(ctx context.Context) (*bootstrap.Services, error) {
	c.servicesOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}

		cfg, err := config.LoadConfig(path)
		if err != nil {
			c.servicesErr = err
			return
		}
		if err := cfg.Validate(); err != nil {
			c.servicesErr = fmt.Errorf("invalid configuration: %w", err)
			return
		}

		logger := logging.CreateLogger(logging.ParseLogLevel(cfg.LogLevel), cfg.LogPath, "cli")
		c.services, c.servicesErr = bootstrap.Open(ctx, cfg, logger, false)
	})
	return c.services, c.servicesErr
}

func (c *commandContext) close() error {
	if c.services == nil {
		return nil
	}
	return c.services.Close()
}
