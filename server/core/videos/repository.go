package videos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/kvstore"
)

// StorageKey is the key-value store key holding the whole video list
const StorageKey = "portfolio_videos"

const (
	videosFileName = "videos.json"
	lockRetryDelay = 50 * time.Millisecond
)

// VideoRepository persists the video list as a single JSON array
type VideoRepository interface {
	// Load returns the stored list. A missing list is initialized empty,
	// an unreadable payload is logged and treated as empty.
	Load(ctx context.Context) ([]Video, error)

	// Save replaces the stored list as a whole
	Save(ctx context.Context, videos []Video) error
}

// KVVideoRepository stores the list under StorageKey in a key-value store
type KVVideoRepository struct {
	logger logging.Logger
	store  kvstore.Store
}

func NewKVVideoRepository(logger logging.Logger, store kvstore.Store) *KVVideoRepository {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &KVVideoRepository{
		logger: logger,
		store:  store,
	}
}

func (r *KVVideoRepository) Load(ctx context.Context) ([]Video, error) {
	raw, ok, err := r.store.Get(ctx, StorageKey)
	if err != nil {
		return nil, NewStorageError("load", err)
	}

	if !ok {
		r.logger.Info("No stored videos found, initializing empty list")
		empty := []Video{}
		if err := r.Save(ctx, empty); err != nil {
			r.logger.Warn("Failed to initialize video list", "error", err)
		}
		return empty, nil
	}

	return decodeVideos(r.logger, []byte(raw)), nil
}

func (r *KVVideoRepository) Save(ctx context.Context, videos []Video) error {
	data, err := encodeVideos(videos)
	if err != nil {
		return NewStorageError("save", err)
	}

	if err := r.store.Set(ctx, StorageKey, string(data)); err != nil {
		return NewStorageError("save", err)
	}
	return nil
}

// FileVideoRepository stores the list in <dataDir>/videos.json.
// Writes go through a temp file and a rename; a lock file guards against other processes.
type FileVideoRepository struct {
	logger logging.Logger
	path   string
	lock   *flock.Flock
	mu     sync.Mutex
}

// NewFileVideoRepository creates the data directory and an empty list file when missing
func NewFileVideoRepository(logger logging.Logger, dataDir string) (*FileVideoRepository, error) {
	if logger == nil {
		logger = logging.NopLogger
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	path := filepath.Join(dataDir, videosFileName)
	repo := &FileVideoRepository{
		logger: logger,
		path:   path,
		lock:   flock.New(path + ".lock"),
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", videosFileName, err)
		}
		logger.Info("Created empty video list", "path", path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", videosFileName, err)
	}

	return repo, nil
}

// Path returns the location of the JSON file
func (r *FileVideoRepository) Path() string {
	return r.path
}

func (r *FileVideoRepository) Load(ctx context.Context) ([]Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := lockErr(r.lock.TryRLockContext(ctx, lockRetryDelay)); err != nil {
		return nil, NewStorageError("load", err)
	}
	defer r.lock.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		r.logger.Info("Video list file missing, recreating", "path", r.path)
		if err := r.write([]byte("[]")); err != nil {
			r.logger.Warn("Failed to recreate video list", "error", err)
		}
		return []Video{}, nil
	}
	if err != nil {
		return nil, NewStorageError("load", err)
	}

	return decodeVideos(r.logger, data), nil
}

func (r *FileVideoRepository) Save(ctx context.Context, videos []Video) error {
	data, err := encodeVideos(videos)
	if err != nil {
		return NewStorageError("save", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := lockErr(r.lock.TryLockContext(ctx, lockRetryDelay)); err != nil {
		return NewStorageError("save", err)
	}
	defer r.lock.Unlock()

	if err := r.write(data); err != nil {
		return NewStorageError("save", err)
	}
	return nil
}

func (r *FileVideoRepository) write(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), videosFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", videosFileName, err)
	}
	return nil
}

func lockErr(locked bool, err error) error {
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return errors.New("failed to acquire lock")
	}
	return nil
}

func encodeVideos(videos []Video) ([]byte, error) {
	if videos == nil {
		videos = []Video{}
	}
	return json.Marshal(videos)
}

func decodeVideos(logger logging.Logger, data []byte) []Video {
	var videos []Video
	if err := json.Unmarshal(data, &videos); err != nil {
		logger.Error("Stored video list is corrupt, treating it as empty", "error", err)
		return []Video{}
	}
	if videos == nil {
		videos = []Video{}
	}
	return videos
}
