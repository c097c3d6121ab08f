package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/videos"
)

// PlaceholderThumbnail is used when a video is created without a thumbnail path
const PlaceholderThumbnail = "/placeholder.svg?height=400&width=600"

// VideoHandler serves the video catalog as JSON
type VideoHandler struct {
	logger   logging.Logger
	catalog  videos.Catalog
	featured videos.FeaturedReader
	now      func() time.Time
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(logger logging.Logger, catalog videos.Catalog, featured videos.FeaturedReader) *VideoHandler {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &VideoHandler{
		logger:   logger,
		catalog:  catalog,
		featured: featured,
		now:      time.Now,
	}
}

// CreateVideoRequest represents the form data for POST /api/videos
type CreateVideoRequest struct {
	Title         string `form:"title" binding:"required"`
	Description   string `form:"description" binding:"required"`
	Duration      string `form:"duration" binding:"required"`
	Resolution    string `form:"resolution" binding:"required"`
	Category      string `form:"category" binding:"required,oneof=youtube commercial documentary"`
	ThumbnailPath string `form:"thumbnailPath"`
	VideoPath     string `form:"videoPath"`
	YoutubeID     string `form:"youtubeId"`
}

// ListVideos handles GET /api/videos
func (h *VideoHandler) ListVideos(c *gin.Context) {
	list, err := h.featured.All(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list videos", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load videos"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetFeatured handles GET /api/featured
func (h *VideoHandler) GetFeatured(c *gin.Context) {
	c.JSON(http.StatusOK, h.featured.Featured(c.Request.Context()))
}

// GetVideo handles GET /api/videos/:id
func (h *VideoHandler) GetVideo(c *gin.Context) {
	id := c.Param("id")

	video, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		if videos.IsVideoNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
			return
		}
		h.logger.Error("Failed to get video", "video_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load video"})
		return
	}

	c.JSON(http.StatusOK, video)
}

// CreateVideo handles POST /api/videos
func (h *VideoHandler) CreateVideo(c *gin.Context) {
	var req CreateVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("Invalid video form data", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data: " + err.Error()})
		return
	}

	video := videos.Video{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Resolution:  req.Resolution,
		Thumbnail:   req.ThumbnailPath,
		VideoURL:    req.VideoPath,
		YoutubeID:   req.YoutubeID,
		Category:    videos.Category(req.Category),
		DateAdded:   h.now().UTC(),
	}
	if video.Thumbnail == "" {
		video.Thumbnail = PlaceholderThumbnail
	}
	normalizeYoutubeID(&video)
	if err := videos.ValidateFields(video.Title, video.Description, video.Duration, video.Resolution, video.Category, video.YoutubeID); err != nil {
		h.logger.Warn("Rejected video", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.catalog.Append(c.Request.Context(), video); err != nil {
		h.logger.Error("Failed to add video", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add video"})
		return
	}

	h.logger.Info("Video added", "video_id", video.ID, "category", video.Category)
	c.JSON(http.StatusOK, gin.H{"success": true, "video": video})
}

// UpdateVideo handles PUT /api/videos/:id. Only fields present and non-empty in the form change.
func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	id := c.Param("id")

	if category, ok := c.GetPostForm("category"); ok && category != "" && !videos.Category(category).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category: " + category})
		return
	}

	video, err := h.catalog.Update(c.Request.Context(), id, func(v *videos.Video) error {
		setIfPresent(c, "title", &v.Title)
		setIfPresent(c, "description", &v.Description)
		setIfPresent(c, "duration", &v.Duration)
		setIfPresent(c, "resolution", &v.Resolution)
		setIfPresent(c, "thumbnailPath", &v.Thumbnail)
		setIfPresent(c, "videoPath", &v.VideoURL)

		if category := c.PostForm("category"); category != "" {
			v.Category = videos.Category(category)
		}
		// an explicitly empty youtubeId clears the reference
		if youtubeID, ok := c.GetPostForm("youtubeId"); ok {
			v.YoutubeID = youtubeID
		}
		normalizeYoutubeID(v)
		return videos.ValidateFields(v.Title, v.Description, v.Duration, v.Resolution, v.Category, v.YoutubeID)
	})
	if err != nil {
		if videos.IsVideoNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
			return
		}
		if videos.IsValidationError(err) {
			h.logger.Warn("Rejected video update", "video_id", id, "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to update video", "video_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update video"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "video": video})
}

// DeleteVideo handles DELETE /api/videos/:id. Deleting an unknown id succeeds.
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	id := c.Param("id")

	removed, err := h.catalog.Remove(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to delete video", "video_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete video"})
		return
	}
	if !removed {
		h.logger.Debug("Delete requested for unknown video", "video_id", id)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// normalizeYoutubeID drops the YouTube reference of videos that carry their own media
func normalizeYoutubeID(v *videos.Video) {
	if v.Category != videos.CategoryYouTube {
		v.YoutubeID = ""
	}
}

func setIfPresent(c *gin.Context, field string, target *string) {
	if value := c.PostForm(field); value != "" {
		*target = value
	}
}
