package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/profile"
	"github.com/yeti47/vidfolio/server/core/videos"
	"github.com/yeti47/vidfolio/server/dashboard/sessions"
)

type ProfileHandler struct {
	logger         logging.Logger
	profiles       profile.ImageStore
	sessionFactory sessions.AuthSessionFactory
}

func NewProfileHandler(logger logging.Logger, profiles profile.ImageStore, sessionFactory sessions.AuthSessionFactory) *ProfileHandler {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &ProfileHandler{
		logger:         logger,
		profiles:       profiles,
		sessionFactory: sessionFactory,
	}
}

type slotView struct {
	Slot    profile.Slot
	Label   string
	Present bool
}

// ShowProfileImages handles GET /admin/profile-images
func (h *ProfileHandler) ShowProfileImages(c *gin.Context) {
	var banners []videos.Banner
	views := make([]slotView, 0, len(profile.Slots))

	for _, slot := range profile.Slots {
		image, err := h.profiles.Get(c.Request.Context(), slot)
		if err != nil {
			h.logger.Error("Failed to read profile image", "slot", slot, "error", err)
			banners = append(banners, videos.Banner{Kind: videos.BannerError, Text: "Failed to load " + slot.Label() + " image."})
		}
		views = append(views, slotView{Slot: slot, Label: slot.Label(), Present: image != ""})
	}

	c.HTML(http.StatusOK, "profile-images", pageData(c, h.sessionFactory, "Profile Images", gin.H{
		"Slots": views,
	}, banners...))
}

// UploadProfileImage handles POST /admin/profile-images/:slot
func (h *ProfileHandler) UploadProfileImage(c *gin.Context) {
	slot, ok := h.slot(c)
	if !ok {
		return
	}

	banner := videos.Banner{Kind: videos.BannerSuccess, Text: slot.SuccessMessage()}
	source := formFile(c, "image")
	if source == nil {
		h.logger.Warn("Profile image upload without a file", "slot", slot)
		banner = videos.Banner{Kind: videos.BannerError, Text: slot.FailureMessage()}
	} else if _, err := h.profiles.Set(c.Request.Context(), slot, source); err != nil {
		h.logger.Error("Failed to store profile image", "slot", slot, "error", err)
		banner = videos.Banner{Kind: videos.BannerError, Text: slot.FailureMessage()}
	}

	h.sessionFactory(c).AddBanner(banner)
	c.Redirect(http.StatusFound, "/admin/profile-images")
}

// ClearProfileImage handles POST /admin/profile-images/:slot/clear
func (h *ProfileHandler) ClearProfileImage(c *gin.Context) {
	slot, ok := h.slot(c)
	if !ok {
		return
	}

	banner := videos.Banner{Kind: videos.BannerSuccess, Text: slot.Label() + " image removed."}
	if err := h.profiles.Clear(c.Request.Context(), slot); err != nil {
		h.logger.Error("Failed to clear profile image", "slot", slot, "error", err)
		banner = videos.Banner{Kind: videos.BannerError, Text: "Failed to remove " + slot.Label() + " image."}
	}

	h.sessionFactory(c).AddBanner(banner)
	c.Redirect(http.StatusFound, "/admin/profile-images")
}

func (h *ProfileHandler) slot(c *gin.Context) (profile.Slot, bool) {
	slot := profile.Slot(c.Param("slot"))
	if !slot.IsValid() {
		c.HTML(http.StatusNotFound, "error", pageData(c, h.sessionFactory, "Unknown profile image", nil))
		return "", false
	}
	return slot, true
}
