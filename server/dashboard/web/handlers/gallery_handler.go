package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/profile"
	"github.com/yeti47/vidfolio/server/core/videos"
	"github.com/yeti47/vidfolio/server/dashboard/sessions"
)

// GalleryHandler renders the public portfolio
type GalleryHandler struct {
	logger         logging.Logger
	featured       videos.FeaturedReader
	profiles       profile.ImageStore
	sessionFactory sessions.AuthSessionFactory
}

func NewGalleryHandler(logger logging.Logger, featured videos.FeaturedReader, profiles profile.ImageStore, sessionFactory sessions.AuthSessionFactory) *GalleryHandler {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &GalleryHandler{
		logger:         logger,
		featured:       featured,
		profiles:       profiles,
		sessionFactory: sessionFactory,
	}
}

// ShowGallery handles GET /. The optional category query narrows the full list, not the featured row.
func (h *GalleryHandler) ShowGallery(c *gin.Context) {
	ctx := c.Request.Context()
	category := videos.Category(c.Query("category"))

	data := gin.H{
		"Featured":   h.featured.Featured(ctx),
		"Categories": videos.Categories,
		"Category":   string(category),
		"HasHero":    h.hasImage(c, profile.SlotHero),
		"HasAbout":   h.hasImage(c, profile.SlotAbout),
	}

	all, err := h.featured.All(ctx)
	if err != nil {
		h.logger.Error("Failed to load videos for gallery", "error", err)
		data["Videos"] = []videos.Video{}
		data["Error"] = "Failed to load videos."
		c.HTML(http.StatusInternalServerError, "gallery", pageData(c, h.sessionFactory, "Portfolio", data))
		return
	}

	if category.IsValid() {
		filtered := make([]videos.Video, 0, len(all))
		for _, video := range all {
			if video.Category == category {
				filtered = append(filtered, video)
			}
		}
		all = filtered
	}
	data["Videos"] = all

	c.HTML(http.StatusOK, "gallery", pageData(c, h.sessionFactory, "Portfolio", data))
}

func (h *GalleryHandler) hasImage(c *gin.Context, slot profile.Slot) bool {
	image, err := h.profiles.Get(c.Request.Context(), slot)
	if err != nil {
		h.logger.Warn("Failed to read profile image", "slot", slot, "error", err)
		return false
	}
	return image != ""
}

// Placeholder handles GET /placeholder.svg, the thumbnail of videos without one
func (h *GalleryHandler) Placeholder(c *gin.Context) {
	width := clampDimension(c.Query("width"), 600)
	height := clampDimension(c.Query("height"), 400)

	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d"><rect width="100%%" height="100%%" fill="#262a33"/><path d="M%d %d l%d %d l-%d %d z" fill="#4b5563"/></svg>`,
		width, height, width, height,
		width/2-height/10, height/2-height/8, height/4, height/8, height/4, height/8)

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}

func clampDimension(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 || n > 4000 {
		return fallback
	}
	return n
}
