package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/media"
	"github.com/yeti47/vidfolio/server/core/profile"
	"github.com/yeti47/vidfolio/server/core/videos"
)

// MediaHandler serves stored media so pages can link it instead of inlining data URIs
type MediaHandler struct {
	logger   logging.Logger
	resolver media.Resolver
}

func NewMediaHandler(logger logging.Logger, resolver media.Resolver) *MediaHandler {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &MediaHandler{
		logger:   logger,
		resolver: resolver,
	}
}

// GetVideoMedia handles GET /media/:id/:role
func (h *MediaHandler) GetVideoMedia(c *gin.Context) {
	videoID := c.Param("id")
	role := videos.MediaRole(c.Param("role"))
	if role != videos.RoleThumbnail && role != videos.RoleVideo {
		c.Status(http.StatusNotFound)
		return
	}

	resolved, err := h.resolver.ResolveVideo(c.Request.Context(), videoID, role)
	h.serve(c, resolved, err)
}

// GetProfileMedia handles GET /profile-media/:slot
func (h *MediaHandler) GetProfileMedia(c *gin.Context) {
	resolved, err := h.resolver.ResolveProfile(c.Request.Context(), profile.Slot(c.Param("slot")))
	h.serve(c, resolved, err)
}

func (h *MediaHandler) serve(c *gin.Context, resolved *media.Resolved, err error) {
	if err != nil {
		if media.IsMediaNotFoundError(err) {
			c.Status(http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to resolve media", "path", c.Request.URL.Path, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if resolved.RedirectURL != "" {
		c.Redirect(http.StatusFound, resolved.RedirectURL)
		return
	}

	h.logger.Debug("Serving media", "path", c.Request.URL.Path, "mimeType", resolved.Asset.MimeType, "size", len(resolved.Asset.Data))

	// ServeContent answers range requests so embedded videos can seek
	c.Header("Content-Type", resolved.Asset.MimeType)
	c.Header("Cache-Control", "private, no-cache")
	http.ServeContent(c.Writer, c.Request, "", time.Time{}, bytes.NewReader(resolved.Asset.Data))
}
