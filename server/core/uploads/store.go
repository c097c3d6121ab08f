package uploads

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Kind string

const (
	KindVideo     Kind = "video"
	KindThumbnail Kind = "thumbnail"
)

// ParseKind maps the fileType form value onto a Kind
func ParseKind(value string) (Kind, bool) {
	switch Kind(value) {
	case KindVideo, KindThumbnail:
		return Kind(value), true
	}
	return "", false
}

// Dir is the directory below the public root that holds files of this kind
func (k Kind) Dir() string {
	if k == KindVideo {
		return "videos"
	}
	return "thumbnails"
}

// Upload describes a stored file
type Upload struct {
	// FilePath is relative to the public root, e.g. /videos/<uuid>.mp4
	FilePath string
	FileName string
	Size     int64
}

// Store keeps uploaded files under public paths
type Store interface {
	Put(ctx context.Context, kind Kind, originalName string, content io.Reader, size int64, contentType string) (*Upload, error)
	// Open returns the content of a file previously returned by Put
	Open(ctx context.Context, filePath string) (io.ReadCloser, error)
}

type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string {
	return "Invalid upload path: " + e.Path
}

type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return "Uploaded file not found: " + e.Path
}

func IsInvalidPathError(err error) bool {
	_, ok := err.(*InvalidPathError)
	return ok
}

func IsFileNotFoundError(err error) bool {
	_, ok := err.(*FileNotFoundError)
	return ok
}

// newFileName builds <uuid><ext of original>
func newFileName(originalName string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(originalName))
}

// cleanPath validates a public path like /videos/abc.mp4 and returns it without the leading slash
func cleanPath(filePath string) (string, error) {
	cleaned := path.Clean("/" + filePath)
	dir, name := path.Split(strings.TrimPrefix(cleaned, "/"))
	dir = strings.TrimSuffix(dir, "/")

	if name == "" || (dir != KindVideo.Dir() && dir != KindThumbnail.Dir()) {
		return "", &InvalidPathError{Path: filePath}
	}
	return dir + "/" + name, nil
}

func publicPath(kind Kind, fileName string) string {
	return fmt.Sprintf("/%s/%s", kind.Dir(), fileName)
}
