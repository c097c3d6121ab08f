package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeti47/vidfolio/server/core/ccc/auth"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/credentials"
)

// AuthMiddleware guards the mutating api routes with the dashboard admin password
type AuthMiddleware struct {
	logger    logging.Logger
	passwords credentials.PasswordService
	failures  auth.FailureTracker
	now       func() time.Time
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(logger logging.Logger, passwords credentials.PasswordService, failures auth.FailureTracker) *AuthMiddleware {
	if logger == nil {
		logger = logging.NopLogger
	}
	if failures == nil {
		failures = auth.NopFailureTracker
	}

	return &AuthMiddleware{
		logger:    logger,
		passwords: passwords,
		failures:  failures,
		now:       time.Now,
	}
}

// RequireAuth expects "Basic <base64(user:password)>". The user name is not checked.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.logger.Warn("Missing Authorization header", "path", c.Request.URL.Path)
			m.reject(c, http.StatusUnauthorized, "Missing Authorization header")
			return
		}

		if !strings.HasPrefix(authHeader, "Basic ") {
			m.logger.Warn("Invalid Authorization header format")
			m.reject(c, http.StatusUnauthorized, "Invalid Authorization header format")
			return
		}

		_, password, ok := c.Request.BasicAuth()
		if !ok {
			m.logger.Warn("Failed to parse Basic Auth credentials")
			m.reject(c, http.StatusUnauthorized, "Invalid credentials format")
			return
		}

		clientIP := c.ClientIP()
		if m.failures.IsLockedOut(clientIP, m.now()) {
			m.logger.Warn("Api request from locked out client", "client_ip", clientIP)
			m.reject(c, http.StatusTooManyRequests, "Too many failed attempts. Try again later.")
			return
		}

		if err := m.passwords.Verify(c.Request.Context(), password); err != nil {
			switch {
			case credentials.IsInvalidPasswordError(err):
				count := m.failures.RecordFailure(clientIP, m.now())
				m.logger.Warn("Invalid api credentials", "client_ip", clientIP, "failures", count)
				m.reject(c, http.StatusUnauthorized, "Invalid credentials")
			case credentials.IsPasswordNotSetError(err):
				m.logger.Warn("Api write rejected, admin password not configured")
				m.reject(c, http.StatusUnauthorized, "Admin password not configured")
			default:
				m.logger.Error("Error verifying api credentials", "error", err)
				m.reject(c, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		m.failures.Reset(clientIP)
		c.Next()
	}
}

func (m *AuthMiddleware) reject(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
