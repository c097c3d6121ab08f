package media

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/profile"
	"github.com/yeti47/vidfolio/server/core/videos"
)

// Resolved is either decoded media or the external location of the media
type Resolved struct {
	Asset       *Asset
	RedirectURL string
}

type MediaNotFoundError struct {
	Key string
}

func (e *MediaNotFoundError) Error() string {
	return "Media not found: " + e.Key
}

func IsMediaNotFoundError(err error) bool {
	_, ok := err.(*MediaNotFoundError)
	return ok
}

// Resolver turns stored media references into servable content
type Resolver interface {
	ResolveVideo(ctx context.Context, videoID string, role videos.MediaRole) (*Resolved, error)
	ResolveProfile(ctx context.Context, slot profile.Slot) (*Resolved, error)
}

type resolver struct {
	logger   logging.Logger
	catalog  videos.Catalog
	profiles profile.ImageStore
	cache    AssetCache
}

func NewResolver(logger logging.Logger, catalog videos.Catalog, profiles profile.ImageStore, cache AssetCache) Resolver {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &resolver{
		logger:   logger,
		catalog:  catalog,
		profiles: profiles,
		cache:    cache,
	}
}

func (r *resolver) ResolveVideo(ctx context.Context, videoID string, role videos.MediaRole) (*Resolved, error) {
	video, err := r.catalog.Get(ctx, videoID)
	if err != nil {
		if videos.IsVideoNotFoundError(err) {
			return nil, &MediaNotFoundError{Key: videoID}
		}
		return nil, err
	}

	var reference string
	switch role {
	case videos.RoleThumbnail:
		reference = video.Thumbnail
	case videos.RoleVideo:
		reference = video.VideoURL
	default:
		return nil, &MediaNotFoundError{Key: videoID + "/" + string(role)}
	}

	return r.resolve(videoID+"/"+string(role), reference)
}

func (r *resolver) ResolveProfile(ctx context.Context, slot profile.Slot) (*Resolved, error) {
	reference, err := r.profiles.Get(ctx, slot)
	if err != nil {
		if profile.IsInvalidSlotError(err) {
			return nil, &MediaNotFoundError{Key: string(slot)}
		}
		return nil, err
	}

	return r.resolve("profile/"+string(slot), reference)
}

func (r *resolver) resolve(key, reference string) (*Resolved, error) {
	if reference == "" {
		return nil, &MediaNotFoundError{Key: key}
	}
	if !IsDataURI(reference) {
		return &Resolved{RedirectURL: reference}, nil
	}

	fingerprint := fingerprintOf(reference)
	if asset, ok := r.cache.Get(key, fingerprint); ok {
		return &Resolved{Asset: asset}, nil
	}

	asset, err := ParseDataURI(reference)
	if err != nil {
		r.logger.Warn("Stored media is not decodable", "key", key, "error", err)
		return nil, fmt.Errorf("failed to decode media %s: %w", key, err)
	}

	r.cache.Set(key, fingerprint, asset)
	return &Resolved{Asset: asset}, nil
}

func fingerprintOf(value string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(value))
	return h.Sum64()
}
