package videos

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
)

type MediaRole string

const (
	RoleThumbnail MediaRole = "thumbnail"
	RoleVideo     MediaRole = "video"
)

const fallbackMimeType = "application/octet-stream"

// MediaSource is a file picked for upload
type MediaSource interface {
	Filename() string
	// Size is the declared size in bytes
	Size() int64
	// ContentType is the declared MIME type, empty when unknown
	ContentType() string
	Open() (io.ReadCloser, error)
}

type fileHeaderSource struct {
	header *multipart.FileHeader
}

// FileHeaderSource adapts a multipart upload. A nil header yields a nil source.
func FileHeaderSource(header *multipart.FileHeader) MediaSource {
	if header == nil {
		return nil
	}
	return &fileHeaderSource{header: header}
}

func (s *fileHeaderSource) Filename() string    { return s.header.Filename }
func (s *fileHeaderSource) Size() int64         { return s.header.Size }
func (s *fileHeaderSource) ContentType() string { return s.header.Header.Get("Content-Type") }
func (s *fileHeaderSource) Open() (io.ReadCloser, error) {
	return s.header.Open()
}

type bytesSource struct {
	filename    string
	contentType string
	data        []byte
}

// BytesSource wraps in-memory file content
func BytesSource(filename, contentType string, data []byte) MediaSource {
	return &bytesSource{filename: filename, contentType: contentType, data: data}
}

func (s *bytesSource) Filename() string    { return s.filename }
func (s *bytesSource) Size() int64         { return int64(len(s.data)) }
func (s *bytesSource) ContentType() string { return s.contentType }
func (s *bytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

type MediaEncoder interface {
	// Encode converts a picked file into a data URI.
	// Thumbnails are always embedded. Videos are embedded only below the configured size limit,
	// otherwise the result is marked TooLarge and carries no data.
	Encode(ctx context.Context, role MediaRole, source MediaSource) (EncodedMedia, error)
}

type mediaEncoder struct {
	logger                logging.Logger
	maxEmbeddedVideoBytes int64
}

func NewMediaEncoder(logger logging.Logger, maxEmbeddedVideoBytes int64) MediaEncoder {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &mediaEncoder{
		logger:                logger,
		maxEmbeddedVideoBytes: maxEmbeddedVideoBytes,
	}
}

func (e *mediaEncoder) Encode(ctx context.Context, role MediaRole, source MediaSource) (EncodedMedia, error) {
	if source == nil {
		return EncodedMedia{}, NewEncodingError(role, "", errors.New("no file selected"))
	}
	if err := ctx.Err(); err != nil {
		return EncodedMedia{}, NewEncodingError(role, source.Filename(), err)
	}

	if role == RoleVideo && e.exceedsLimit(source.Size()) {
		e.logger.Warn("Video too large to embed, storing without video data", "file", source.Filename(), "size", source.Size())
		return EncodedMedia{TooLarge: true, Size: source.Size()}, nil
	}

	data, err := readSource(source, e.readLimit(role))
	if err != nil {
		return EncodedMedia{}, NewEncodingError(role, source.Filename(), err)
	}

	// declared size can lie
	if role == RoleVideo && e.exceedsLimit(int64(len(data))) {
		e.logger.Warn("Video too large to embed, storing without video data", "file", source.Filename(), "size", len(data))
		return EncodedMedia{TooLarge: true, Size: int64(len(data))}, nil
	}

	if err := ctx.Err(); err != nil {
		return EncodedMedia{}, NewEncodingError(role, source.Filename(), err)
	}

	mimeType := resolveMimeType(source.ContentType(), data)
	dataURI := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)

	e.logger.Debug("Encoded media", "role", role, "file", source.Filename(), "mime_type", mimeType, "size", len(data))
	return EncodedMedia{DataURI: dataURI, Embedded: true, Size: int64(len(data))}, nil
}

func (e *mediaEncoder) exceedsLimit(size int64) bool {
	return size >= e.maxEmbeddedVideoBytes
}

// readLimit caps how much of a video is read; one byte past the limit is enough to reject it
func (e *mediaEncoder) readLimit(role MediaRole) int64 {
	if role == RoleVideo {
		return e.maxEmbeddedVideoBytes
	}
	return -1
}

func readSource(source MediaSource, limit int64) ([]byte, error) {
	reader, err := source.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	var r io.Reader = reader
	if limit >= 0 {
		r = io.LimitReader(reader, limit+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// resolveMimeType prefers the declared type and sniffs the content otherwise
func resolveMimeType(declared string, data []byte) string {
	declared = stripParams(declared)
	if declared != "" && declared != fallbackMimeType {
		return declared
	}

	detected := stripParams(mimetype.Detect(data).String())
	if detected == "" {
		return fallbackMimeType
	}
	return detected
}

func stripParams(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.TrimSpace(mimeType)
}
