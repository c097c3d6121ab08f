package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yeti47/vidfolio/server/core/ccc/logging"
)

// LocalStore writes uploads below a public directory on disk
type LocalStore struct {
	logger  logging.Logger
	rootDir string
}

func NewLocalStore(logger logging.Logger, rootDir string) *LocalStore {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &LocalStore{
		logger:  logger,
		rootDir: rootDir,
	}
}

func (s *LocalStore) Put(ctx context.Context, kind Kind, originalName string, content io.Reader, size int64, contentType string) (*Upload, error) {
	dir := filepath.Join(s.rootDir, kind.Dir())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	fileName := newFileName(originalName)
	target := filepath.Join(dir, fileName)

	file, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}

	written, err := io.Copy(file, &contextReader{ctx: ctx, r: content})
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(target)
		return nil, fmt.Errorf("failed to write upload file: %w", err)
	}

	s.logger.Info("Stored upload", "kind", kind, "file", fileName, "size", written)
	return &Upload{
		FilePath: publicPath(kind, fileName),
		FileName: fileName,
		Size:     written,
	}, nil
}

func (s *LocalStore) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	relative, err := cleanPath(filePath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.rootDir, filepath.FromSlash(relative)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, &FileNotFoundError{Path: filePath}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	return file, nil
}

// contextReader stops a copy once the context is done
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *contextReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
