package media

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/profile"
	"github.com/yeti47/vidfolio/server/core/videos"
)

func TestParseDataURI(t *testing.T) {
	asset, err := ParseDataURI("data:image/png;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("ParseDataURI failed: %v", err)
	}
	if asset.MimeType != "image/png" || string(asset.Data) != "hello" {
		t.Errorf("Unexpected asset %q %q", asset.MimeType, asset.Data)
	}

	asset, err = ParseDataURI("data:,a%20b")
	if err != nil {
		t.Fatalf("ParseDataURI failed: %v", err)
	}
	if asset.MimeType != "text/plain" || string(asset.Data) != "a b" {
		t.Errorf("Unexpected asset %q %q", asset.MimeType, asset.Data)
	}

	unpadded, err := ParseDataURI("data:text/plain;base64,aGVsbG8")
	if err != nil || string(unpadded.Data) != "hello" {
		t.Errorf("Expected unpadded base64 to decode, got %v", err)
	}

	if _, err := ParseDataURI("/thumbnails/a.png"); !errors.Is(err, ErrNotDataURI) {
		t.Errorf("Expected ErrNotDataURI, got %v", err)
	}
	if _, err := ParseDataURI("data:image/png;base64"); err == nil {
		t.Error("Expected error for missing payload")
	}
	if _, err := ParseDataURI("data:image/png;base64,@@@"); err == nil {
		t.Error("Expected error for invalid base64")
	}
}

func TestAssetCache_SetAndGet(t *testing.T) {
	cache := NewAssetCache(1024, logging.NopLogger)
	asset := &Asset{MimeType: "image/png", Data: []byte("png data")}

	if _, found := cache.Get("v1/thumbnail", 1); found {
		t.Error("Expected cache miss")
	}

	cache.Set("v1/thumbnail", 1, asset)
	got, found := cache.Get("v1/thumbnail", 1)
	if !found || string(got.Data) != "png data" {
		t.Fatalf("Expected cache hit, got %v %v", got, found)
	}

	stats := cache.Stats()
	if stats.HitCount != 1 || stats.MissCount != 1 || stats.TotalSize != 8 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestAssetCache_FingerprintMismatchInvalidates(t *testing.T) {
	cache := NewAssetCache(1024, logging.NopLogger)
	cache.Set("v1/video", 1, &Asset{Data: []byte("old")})

	if _, found := cache.Get("v1/video", 2); found {
		t.Error("Changed media must not be served from cache")
	}
	if cache.Stats().EntryCount != 0 {
		t.Error("Stale entry should be dropped")
	}
}

func TestAssetCache_LRUEviction(t *testing.T) {
	cache := NewAssetCache(10, logging.NopLogger)

	cache.Set("a", 1, &Asset{Data: []byte("aaaa")})
	cache.Set("b", 1, &Asset{Data: []byte("bbbb")})
	cache.Get("a", 1)
	cache.Set("c", 1, &Asset{Data: []byte("cccc")})

	if _, found := cache.Get("b", 1); found {
		t.Error("Least recently used entry should have been evicted")
	}
	if _, found := cache.Get("a", 1); !found {
		t.Error("Recently used entry should remain")
	}
	if cache.Stats().EvictionCount != 1 {
		t.Errorf("Expected one eviction, got %d", cache.Stats().EvictionCount)
	}

	cache.Set("huge", 1, &Asset{Data: make([]byte, 11)})
	if _, found := cache.Get("huge", 1); found {
		t.Error("Assets larger than the cache must not be stored")
	}

	cache.Clear()
	if cache.Stats().TotalSize != 0 {
		t.Error("Clear should empty the cache")
	}
}

type stubCatalog struct {
	videos.Catalog
	byID map[string]videos.Video
}

func (c *stubCatalog) Get(ctx context.Context, id string) (*videos.Video, error) {
	v, ok := c.byID[id]
	if !ok {
		return nil, videos.NewVideoNotFoundError(id)
	}
	return &v, nil
}

type stubProfiles struct {
	profile.ImageStore
	images map[profile.Slot]string
}

func (s *stubProfiles) Get(ctx context.Context, slot profile.Slot) (string, error) {
	return s.images[slot], nil
}

func TestResolver_ResolveVideo(t *testing.T) {
	catalog := &stubCatalog{byID: map[string]videos.Video{
		"embedded": {ID: "embedded", Thumbnail: "data:image/jpeg;base64,/9j/", VideoURL: "data:video/mp4;base64,AAAA", DateAdded: time.Now()},
		"external": {ID: "external", Thumbnail: "/thumbnails/x.jpg"},
	}}
	resolver := NewResolver(nil, catalog, &stubProfiles{}, NewAssetCache(1024, nil))
	ctx := context.Background()

	resolved, err := resolver.ResolveVideo(ctx, "embedded", videos.RoleThumbnail)
	if err != nil {
		t.Fatalf("ResolveVideo failed: %v", err)
	}
	if resolved.Asset == nil || resolved.Asset.MimeType != "image/jpeg" {
		t.Errorf("Expected decoded jpeg, got %+v", resolved)
	}

	resolved, err = resolver.ResolveVideo(ctx, "external", videos.RoleThumbnail)
	if err != nil || resolved.RedirectURL != "/thumbnails/x.jpg" {
		t.Errorf("Expected redirect to external path, got %+v (err %v)", resolved, err)
	}

	if _, err := resolver.ResolveVideo(ctx, "external", videos.RoleVideo); !IsMediaNotFoundError(err) {
		t.Errorf("Absent videoUrl should be not found, got %v", err)
	}
	if _, err := resolver.ResolveVideo(ctx, "ghost", videos.RoleVideo); !IsMediaNotFoundError(err) {
		t.Errorf("Unknown video should be not found, got %v", err)
	}
}

func TestResolver_ResolveProfile(t *testing.T) {
	profiles := &stubProfiles{images: map[profile.Slot]string{profile.SlotHero: "data:image/png;base64," + strings.Repeat("A", 8)}}
	resolver := NewResolver(nil, &stubCatalog{}, profiles, NewAssetCache(1024, nil))

	resolved, err := resolver.ResolveProfile(context.Background(), profile.SlotHero)
	if err != nil || resolved.Asset == nil || len(resolved.Asset.Data) != 6 {
		t.Errorf("Expected decoded hero image, got %+v (err %v)", resolved, err)
	}

	if _, err := resolver.ResolveProfile(context.Background(), profile.SlotAbout); !IsMediaNotFoundError(err) {
		t.Errorf("Empty slot should be not found, got %v", err)
	}
}
