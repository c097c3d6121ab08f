package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/videos"
	"github.com/yeti47/vidfolio/server/dashboard/sessions"
)

// AdminHandler drives the create, edit and delete flows of the video dashboard
type AdminHandler struct {
	logger         logging.Logger
	controller     videos.AdminController
	catalog        videos.Catalog
	sessionFactory sessions.AuthSessionFactory
}

func NewAdminHandler(logger logging.Logger, controller videos.AdminController, catalog videos.Catalog, sessionFactory sessions.AuthSessionFactory) *AdminHandler {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &AdminHandler{
		logger:         logger,
		controller:     controller,
		catalog:        catalog,
		sessionFactory: sessionFactory,
	}
}

// ShowAdmin handles GET /admin
func (h *AdminHandler) ShowAdmin(c *gin.Context) {
	h.renderAdmin(c, http.StatusOK, videos.CreateForm{})
}

// CreateVideo handles POST /admin/videos
func (h *AdminHandler) CreateVideo(c *gin.Context) {
	form := videos.CreateForm{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		Duration:      c.PostForm("duration"),
		Resolution:    c.PostForm("resolution"),
		Category:      videos.Category(c.PostForm("category")),
		YoutubeID:     c.PostForm("youtubeId"),
		VideoFile:     formFile(c, "video_file"),
		ThumbnailFile: formFile(c, "thumbnail_file"),
	}

	video, banner, err := h.controller.Submit(c.Request.Context(), form, nil)
	if err != nil {
		h.logger.Warn("Video upload failed", "error", err)
		h.renderAdmin(c, statusFor(err), form, banner)
		return
	}

	h.logger.Info("Video uploaded from dashboard", "video_id", video.ID)
	h.sessionFactory(c).AddBanner(banner)
	c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminHandler) renderAdmin(c *gin.Context, status int, form videos.CreateForm, banners ...videos.Banner) {
	list, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list videos", "error", err)
		list = []videos.Video{}
		banners = append(banners, videos.Banner{Kind: videos.BannerError, Text: "Failed to load videos."})
	}

	c.HTML(status, "admin", pageData(c, h.sessionFactory, "Video Management", gin.H{
		"Form":       form,
		"Videos":     list,
		"Categories": videos.Categories,
	}, banners...))
}

// ShowEdit handles GET /admin/videos/:id/edit
func (h *AdminHandler) ShowEdit(c *gin.Context) {
	session, err := h.controller.BeginEdit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderLookupError(c, err)
		return
	}

	h.renderEdit(c, http.StatusOK, session)
}

// SaveEdit handles POST /admin/videos/:id/edit
func (h *AdminHandler) SaveEdit(c *gin.Context) {
	session, err := h.controller.BeginEdit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderLookupError(c, err)
		return
	}

	session.Video.Title = c.PostForm("title")
	session.Video.Description = c.PostForm("description")
	session.Video.Duration = c.PostForm("duration")
	session.Video.Resolution = c.PostForm("resolution")
	session.Video.Category = videos.Category(c.PostForm("category"))
	session.Video.YoutubeID = c.PostForm("youtubeId")
	session.NewThumbnail = formFile(c, "thumbnail_file")
	session.NewVideo = formFile(c, "video_file")

	_, banner, err := h.controller.SaveEdit(c.Request.Context(), session, nil)
	if err != nil {
		h.logger.Warn("Video update failed", "video_id", session.Video.ID, "error", err)
		h.renderEdit(c, statusFor(err), session, banner)
		return
	}

	h.sessionFactory(c).AddBanner(banner)
	c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminHandler) renderEdit(c *gin.Context, status int, session *videos.EditSession, banners ...videos.Banner) {
	c.HTML(status, "edit", pageData(c, h.sessionFactory, "Edit Video", gin.H{
		"Video":      session.Video,
		"Categories": videos.Categories,
	}, banners...))
}

// ShowDelete handles GET /admin/videos/:id/delete
func (h *AdminHandler) ShowDelete(c *gin.Context) {
	selection, err := h.controller.SelectForDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderLookupError(c, err)
		return
	}

	c.HTML(http.StatusOK, "delete", pageData(c, h.sessionFactory, "Delete Video", gin.H{
		"Selection": selection,
	}))
}

// ConfirmDelete handles POST /admin/videos/:id/delete
func (h *AdminHandler) ConfirmDelete(c *gin.Context) {
	banner, err := h.controller.ConfirmDelete(c.Request.Context(), &videos.DeleteSelection{ID: c.Param("id")})
	if err != nil {
		h.logger.Error("Video deletion failed", "video_id", c.Param("id"), "error", err)
	}

	h.sessionFactory(c).AddBanner(banner)
	c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminHandler) renderLookupError(c *gin.Context, err error) {
	if videos.IsVideoNotFoundError(err) {
		c.HTML(http.StatusNotFound, "error", pageData(c, h.sessionFactory, "Video not found", nil))
		return
	}

	h.logger.Error("Failed to load video", "video_id", c.Param("id"), "error", err)
	c.HTML(http.StatusInternalServerError, "error", pageData(c, h.sessionFactory, "Failed to load video", nil))
}

// formFile returns nil when the field holds no file
func formFile(c *gin.Context, field string) videos.MediaSource {
	header, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return videos.FileHeaderSource(header)
}

func statusFor(err error) int {
	switch {
	case videos.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, videos.ErrFlowBusy):
		return http.StatusConflict
	case videos.IsVideoNotFoundError(err):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
