package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeti47/vidfolio/server/core/ccc/auth"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/credentials"
	"github.com/yeti47/vidfolio/server/core/notifications"
	"github.com/yeti47/vidfolio/server/core/videos"
	"github.com/yeti47/vidfolio/server/dashboard/sessions"
)

const msgLockedOut = "Too many failed login attempts. Please try again later."

type AuthHandler struct {
	logger         logging.Logger
	passwords      credentials.PasswordService
	sessionFactory sessions.AuthSessionFactory
	failures       auth.FailureTracker
	notifier       notifications.AuthNotifier
	now            func() time.Time
}

func NewAuthHandler(logger logging.Logger, passwords credentials.PasswordService, sessionFactory sessions.AuthSessionFactory, failures auth.FailureTracker, notifier notifications.AuthNotifier) *AuthHandler {
	if logger == nil {
		logger = logging.NopLogger
	}
	if failures == nil {
		failures = auth.NopFailureTracker
	}
	if notifier == nil {
		notifier = notifications.NopAuthNotifier
	}

	return &AuthHandler{
		logger:         logger,
		passwords:      passwords,
		sessionFactory: sessionFactory,
		failures:       failures,
		notifier:       notifier,
		now:            time.Now,
	}
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	configured, err := h.passwords.IsConfigured(c.Request.Context())
	if err == nil && !configured {
		c.Redirect(http.StatusFound, "/auth/setup")
		return
	}

	c.HTML(http.StatusOK, "login", gin.H{
		"Title": "Login",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	clientIP := c.ClientIP()

	if h.failures.IsLockedOut(clientIP, h.now()) {
		h.logger.Warn("Login attempt from locked out client", "client_ip", clientIP)
		c.HTML(http.StatusTooManyRequests, "login", gin.H{
			"Title": "Login",
			"Error": msgLockedOut,
		})
		return
	}

	password := c.PostForm("password")
	if password == "" {
		c.HTML(http.StatusBadRequest, "login", gin.H{
			"Title": "Login",
			"Error": "Password is required",
		})
		return
	}

	err := h.passwords.Verify(c.Request.Context(), password)
	switch {
	case err == nil:
	case credentials.IsPasswordNotSetError(err):
		c.Redirect(http.StatusFound, "/auth/setup")
		return
	case credentials.IsInvalidPasswordError(err):
		h.recordFailure(clientIP)
		c.HTML(http.StatusUnauthorized, "login", gin.H{
			"Title": "Login",
			"Error": "Invalid password",
		})
		return
	default:
		h.logger.Error("Failed to verify password during login", "error", err)
		c.HTML(http.StatusInternalServerError, "login", gin.H{
			"Title": "Login",
			"Error": "An internal error occurred.",
		})
		return
	}

	h.failures.Reset(clientIP)

	if err := h.sessionFactory(c).SetAuthenticated(); err != nil {
		h.logger.Error("Failed to start session", "error", err)
		c.HTML(http.StatusInternalServerError, "login", gin.H{
			"Title": "Login",
			"Error": "Failed to start session.",
		})
		return
	}

	h.logger.Info("Admin logged in", "client_ip", clientIP)
	c.Redirect(http.StatusFound, "/admin")
}

func (h *AuthHandler) recordFailure(clientIP string) {
	count := h.failures.RecordFailure(clientIP, h.now())
	h.logger.Warn("Failed login attempt", "client_ip", clientIP, "failures", count)

	if h.notifier.ShouldNotify(count) {
		if err := h.notifier.NotifyRepeatedLoginFailure(clientIP, count); err != nil {
			h.logger.Error("Failed to send login failure notification", "error", err)
		}
	}
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessionFactory(c).Clear(); err != nil {
		// Don't block logout, just log the error.
		h.logger.Error("Failed to clear session", "error", err)
	}
	c.Redirect(http.StatusFound, "/auth/login")
}

func (h *AuthHandler) ShowSetup(c *gin.Context) {
	if h.redirectIfConfigured(c) {
		return
	}

	c.HTML(http.StatusOK, "setup", gin.H{
		"Title": "Setup",
	})
}

func (h *AuthHandler) Setup(c *gin.Context) {
	if h.redirectIfConfigured(c) {
		return
	}

	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirm_password")

	if password == "" || confirmPassword == "" {
		c.HTML(http.StatusBadRequest, "setup", gin.H{
			"Title": "Setup",
			"Error": "All fields are required",
		})
		return
	}

	if password != confirmPassword {
		c.HTML(http.StatusBadRequest, "setup", gin.H{
			"Title": "Setup",
			"Error": "Passwords do not match",
		})
		return
	}

	if err := h.passwords.CreatePassword(c.Request.Context(), password); err != nil {
		if credentials.IsWeakPasswordError(err) {
			c.HTML(http.StatusBadRequest, "setup", gin.H{
				"Title": "Setup",
				"Error": err.Error(),
			})
			return
		}
		if credentials.IsPasswordAlreadySetError(err) {
			c.Redirect(http.StatusFound, "/auth/login")
			return
		}
		h.logger.Error("Failed to create admin password", "error", err)
		c.HTML(http.StatusInternalServerError, "setup", gin.H{
			"Title": "Setup",
			"Error": "Failed to save password.",
		})
		return
	}

	if err := h.sessionFactory(c).SetAuthenticated(); err != nil {
		h.logger.Error("Failed to start session after setup", "error", err)
		c.HTML(http.StatusInternalServerError, "setup", gin.H{
			"Title": "Setup",
			"Error": "Failed to start session.",
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

func (h *AuthHandler) ShowChangePassword(c *gin.Context) {
	c.HTML(http.StatusOK, "password", gin.H{
		"Title": "Change Password",
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	current := c.PostForm("current_password")
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirm_password")

	if password != confirmPassword {
		c.HTML(http.StatusBadRequest, "password", gin.H{
			"Title": "Change Password",
			"Error": "Passwords do not match",
		})
		return
	}

	if err := h.passwords.ChangePassword(c.Request.Context(), current, password); err != nil {
		status, message := http.StatusInternalServerError, "Failed to change password."
		switch {
		case credentials.IsInvalidPasswordError(err):
			status, message = http.StatusUnauthorized, "Current password is incorrect"
		case credentials.IsWeakPasswordError(err):
			status, message = http.StatusBadRequest, err.Error()
		default:
			h.logger.Error("Failed to change admin password", "error", err)
		}
		c.HTML(status, "password", gin.H{
			"Title": "Change Password",
			"Error": message,
		})
		return
	}

	h.sessionFactory(c).AddBanner(videos.Banner{Kind: videos.BannerSuccess, Text: "Password changed successfully!"})
	c.Redirect(http.StatusFound, "/admin")
}

func (h *AuthHandler) redirectIfConfigured(c *gin.Context) bool {
	configured, err := h.passwords.IsConfigured(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to check admin password", "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return true
	}
	if configured {
		c.Redirect(http.StatusFound, "/auth/login")
		return true
	}
	return false
}
