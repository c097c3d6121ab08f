package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/credentials"
	"github.com/yeti47/vidfolio/server/dashboard/sessions"
)

type AuthMiddleware struct {
	logger         logging.Logger
	passwords      credentials.PasswordService
	sessionFactory sessions.AuthSessionFactory
}

func NewAuthMiddleware(logger logging.Logger, passwords credentials.PasswordService, sessionFactory sessions.AuthSessionFactory) *AuthMiddleware {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &AuthMiddleware{
		logger:         logger,
		passwords:      passwords,
		sessionFactory: sessionFactory,
	}
}

func (m *AuthMiddleware) RequireAuth(c *gin.Context) {
	// Without an admin password the dashboard must be set up first
	configured, err := m.passwords.IsConfigured(c.Request.Context())
	if err != nil {
		m.logger.Error("Failed to check admin password for auth check", "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if !configured {
		m.logger.Info("No admin password found, redirecting to setup.")
		c.Redirect(http.StatusFound, "/auth/setup")
		c.Abort()
		return
	}

	if !m.sessionFactory(c).IsAuthenticated() {
		m.logger.Info("User not authenticated, redirecting to login.")
		c.Redirect(http.StatusFound, "/auth/login")
		c.Abort()
		return
	}

	c.Next()
}

func (m *AuthMiddleware) RedirectIfAuth(c *gin.Context) {
	if m.sessionFactory(c).IsAuthenticated() {
		c.Redirect(http.StatusFound, "/admin")
		c.Abort()
		return
	}

	c.Next()
}
