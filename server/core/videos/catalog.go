package videos

import (
	"context"
	"sync"

	"github.com/yeti47/vidfolio/server/core/ccc/logging"
)

// Catalog is the ordered video list shared by the dashboard, the api and the cli.
// Every mutation loads the current list, changes a copy and saves it back as a whole.
type Catalog interface {
	List(ctx context.Context) ([]Video, error)
	Get(ctx context.Context, id string) (*Video, error)
	// Append adds a video at the end of the list. The id must not be in use.
	Append(ctx context.Context, video Video) error
	// Replace swaps the video with the same id in place
	Replace(ctx context.Context, video Video) error
	// Update applies mutate to the stored video with the given id. ID and DateAdded cannot be changed.
	Update(ctx context.Context, id string, mutate func(*Video) error) (*Video, error)
	// Remove deletes the video with the given id and reports whether it existed
	Remove(ctx context.Context, id string) (bool, error)
	// ReplaceAll overwrites the whole list
	ReplaceAll(ctx context.Context, videos []Video) error
}

type catalog struct {
	logger logging.Logger
	repo   VideoRepository

	// serializes load-modify-save within this process
	mu sync.Mutex
}

func NewCatalog(logger logging.Logger, repo VideoRepository) Catalog {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &catalog{
		logger: logger,
		repo:   repo,
	}
}

func (c *catalog) List(ctx context.Context) ([]Video, error) {
	videos, err := c.repo.Load(ctx)
	if err != nil {
		c.logger.Error("Failed to load videos", "error", err)
		return nil, err
	}
	return videos, nil
}

func (c *catalog) Get(ctx context.Context, id string) (*Video, error) {
	videos, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	if i := indexOf(videos, id); i >= 0 {
		video := videos[i]
		return &video, nil
	}
	return nil, NewVideoNotFoundError(id)
}

func (c *catalog) Append(ctx context.Context, video Video) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	videos, err := c.repo.Load(ctx)
	if err != nil {
		c.logger.Error("Failed to load videos for append", "error", err)
		return err
	}

	if indexOf(videos, video.ID) >= 0 {
		return NewVideoAlreadyExistsError(video.ID)
	}

	updated := make([]Video, 0, len(videos)+1)
	updated = append(updated, videos...)
	updated = append(updated, video)

	if err := c.repo.Save(ctx, updated); err != nil {
		c.logger.Error("Failed to save videos after append", "error", err, "video_id", video.ID)
		return err
	}

	c.logger.Info("Added video", "video_id", video.ID, "title", video.Title, "count", len(updated))
	return nil
}

func (c *catalog) Replace(ctx context.Context, video Video) error {
	_, err := c.update(ctx, video.ID, func(stored *Video) error {
		*stored = video
		return nil
	}, false)
	return err
}

func (c *catalog) Update(ctx context.Context, id string, mutate func(*Video) error) (*Video, error) {
	return c.update(ctx, id, mutate, true)
}

func (c *catalog) update(ctx context.Context, id string, mutate func(*Video) error, pinIdentity bool) (*Video, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	videos, err := c.repo.Load(ctx)
	if err != nil {
		c.logger.Error("Failed to load videos for update", "error", err)
		return nil, err
	}

	i := indexOf(videos, id)
	if i < 0 {
		return nil, NewVideoNotFoundError(id)
	}

	updated := make([]Video, len(videos))
	copy(updated, videos)

	video := updated[i]
	if err := mutate(&video); err != nil {
		return nil, err
	}
	if pinIdentity {
		video.DateAdded = videos[i].DateAdded
	}
	video.ID = id
	updated[i] = video

	if err := c.repo.Save(ctx, updated); err != nil {
		c.logger.Error("Failed to save videos after update", "error", err, "video_id", id)
		return nil, err
	}

	c.logger.Info("Updated video", "video_id", id)
	return &video, nil
}

func (c *catalog) Remove(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	videos, err := c.repo.Load(ctx)
	if err != nil {
		c.logger.Error("Failed to load videos for removal", "error", err)
		return false, err
	}

	updated := make([]Video, 0, len(videos))
	for _, video := range videos {
		if video.ID != id {
			updated = append(updated, video)
		}
	}

	if len(updated) == len(videos) {
		return false, nil
	}

	if err := c.repo.Save(ctx, updated); err != nil {
		c.logger.Error("Failed to save videos after removal", "error", err, "video_id", id)
		return false, err
	}

	c.logger.Info("Removed video", "video_id", id, "count", len(updated))
	return true, nil
}

func (c *catalog) ReplaceAll(ctx context.Context, videos []Video) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.repo.Save(ctx, videos); err != nil {
		c.logger.Error("Failed to replace video list", "error", err)
		return err
	}

	c.logger.Info("Replaced video list", "count", len(videos))
	return nil
}

func indexOf(videos []Video, id string) int {
	for i := range videos {
		if videos[i].ID == id {
			return i
		}
	}
	return -1
}
