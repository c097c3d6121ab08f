package videos

import (
	"context"
	"sort"

	"github.com/yeti47/vidfolio/server/core/ccc/logging"
)

const DefaultFeaturedCount = 3

// FeaturedReader serves the public views of the video list
type FeaturedReader interface {
	// All returns the whole list in stored order
	All(ctx context.Context) ([]Video, error)
	// Featured returns the most recently added videos, newest first.
	// Read failures yield an empty list.
	Featured(ctx context.Context) []Video
}

type featuredReader struct {
	logger  logging.Logger
	catalog Catalog
	count   int
}

func NewFeaturedReader(logger logging.Logger, catalog Catalog, count int) FeaturedReader {
	if logger == nil {
		logger = logging.NopLogger
	}
	if count <= 0 {
		count = DefaultFeaturedCount
	}

	return &featuredReader{
		logger:  logger,
		catalog: catalog,
		count:   count,
	}
}

func (r *featuredReader) All(ctx context.Context) ([]Video, error) {
	return r.catalog.List(ctx)
}

func (r *featuredReader) Featured(ctx context.Context) []Video {
	videos, err := r.catalog.List(ctx)
	if err != nil {
		r.logger.Warn("Failed to read videos for featured view", "error", err)
		return []Video{}
	}
	return MostRecent(videos, r.count)
}

// MostRecent returns up to n videos ordered by DateAdded descending.
// Ties keep their stored order; entries without a date sort last.
func MostRecent(videos []Video, n int) []Video {
	sorted := make([]Video, len(videos))
	copy(sorted, videos)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].DateAdded, sorted[j].DateAdded
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
