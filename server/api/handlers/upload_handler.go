package handlers

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/uploads"
)

// UploadHandler stores media files and serves them back under their public paths
type UploadHandler struct {
	logger logging.Logger
	store  uploads.Store
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(logger logging.Logger, store uploads.Store) *UploadHandler {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &UploadHandler{
		logger: logger,
		store:  store,
	}
}

// Upload handles POST /api/upload
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.logger.Warn("Failed to get uploaded file", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	kind, ok := uploads.ParseKind(c.PostForm("fileType"))
	if !ok {
		h.logger.Warn("Invalid upload file type", "file_type", c.PostForm("fileType"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Expected video or thumbnail"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		return
	}
	defer file.Close()

	detected, err := mimetype.DetectReader(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		return
	}
	if !matchesKind(kind, detected) {
		h.logger.Warn("Uploaded file does not match its type", "file_type", kind, "detected", detected.String(), "filename", fileHeader.Filename)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Uploaded file is not a valid " + string(kind)})
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		h.logger.Error("Failed to rewind uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		return
	}

	upload, err := h.store.Put(c.Request.Context(), kind, fileHeader.Filename, file, fileHeader.Size, detected.String())
	if err != nil {
		h.logger.Error("Failed to store uploaded file", "error", err, "filename", fileHeader.Filename)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"filePath": upload.FilePath,
		"fileName": upload.FileName,
	})
}

// ServeFile handles GET /videos/:file and /thumbnails/:file
func (h *UploadHandler) ServeFile(kind uploads.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		filePath := "/" + path.Join(kind.Dir(), c.Param("file"))

		content, err := h.store.Open(c.Request.Context(), filePath)
		if err != nil {
			if uploads.IsFileNotFoundError(err) || uploads.IsInvalidPathError(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
				return
			}
			h.logger.Error("Failed to open stored file", "path", filePath, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
			return
		}
		defer content.Close()

		contentType := mime.TypeByExtension(path.Ext(filePath))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.DataFromReader(http.StatusOK, -1, contentType, content, nil)
	}
}

func matchesKind(kind uploads.Kind, detected *mimetype.MIME) bool {
	for m := detected; m != nil; m = m.Parent() {
		switch {
		case kind == uploads.KindVideo && strings.HasPrefix(m.String(), "video/"):
			return true
		case kind == uploads.KindThumbnail && strings.HasPrefix(m.String(), "image/"):
			return true
		}
	}
	return false
}
