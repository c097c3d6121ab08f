package media

import (
	"container/list"
	"sync"
	"time"

	"github.com/yeti47/vidfolio/server/core/ccc/logging"
)

const defaultCacheBytes = 64 * 1024 * 1024

// cacheEntry is a decoded asset together with the fingerprint of the data URI it came from
type cacheEntry struct {
	key         string
	fingerprint uint64
	asset       *Asset
	accessTime  time.Time
	element     *list.Element // for LRU tracking
}

// AssetCache keeps decoded media so repeated requests skip base64 decoding
type AssetCache interface {
	// Get returns the cached asset when it was decoded from a data URI with the same fingerprint
	Get(key string, fingerprint uint64) (*Asset, bool)
	Set(key string, fingerprint uint64, asset *Asset)
	Delete(key string)
	Clear()
	Stats() CacheStats
}

// CacheStats provides information about cache performance and usage
type CacheStats struct {
	TotalSize      int64
	MaxSize        int64
	EntryCount     int
	HitCount       int64
	MissCount      int64
	EvictionCount  int64
	UtilizationPct float64
}

// lruCache implements AssetCache with LRU eviction bounded by total asset bytes
type lruCache struct {
	mutex       sync.RWMutex
	maxSize     int64
	currentSize int64
	entries     map[string]*cacheEntry
	lruList     *list.List // most recently used at front
	logger      logging.Logger

	hitCount      int64
	missCount     int64
	evictionCount int64
}

// NewAssetCache creates an LRU cache holding at most maxSizeBytes of decoded media
func NewAssetCache(maxSizeBytes int64, logger logging.Logger) AssetCache {
	if logger == nil {
		logger = logging.NopLogger
	}

	if maxSizeBytes <= 0 {
		logger.Warn("Invalid media cache size provided, using default", "providedSize", maxSizeBytes, "defaultSize", defaultCacheBytes)
		maxSizeBytes = defaultCacheBytes
	}

	return &lruCache{
		maxSize: maxSizeBytes,
		entries: make(map[string]*cacheEntry),
		lruList: list.New(),
		logger:  logger,
	}
}

func (c *lruCache) Get(key string, fingerprint uint64) (*Asset, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[key]
	if !exists || entry.fingerprint != fingerprint {
		if exists {
			// the stored media changed since it was cached
			c.removeEntry(entry)
		}
		c.missCount++
		return nil, false
	}

	entry.accessTime = time.Now()
	c.lruList.MoveToFront(entry.element)
	c.hitCount++

	// assets are never mutated after Set, sharing the pointer is safe
	return entry.asset, true
}

func (c *lruCache) Set(key string, fingerprint uint64, asset *Asset) {
	if asset == nil || len(asset.Data) == 0 {
		return
	}

	size := int64(len(asset.Data))
	if size > c.maxSize {
		c.logger.Debug("Asset too large for media cache", "key", key, "size", size, "maxSize", c.maxSize)
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if existing, exists := c.entries[key]; exists {
		c.removeEntry(existing)
	}

	entry := &cacheEntry{
		key:         key,
		fingerprint: fingerprint,
		asset:       asset,
		accessTime:  time.Now(),
	}
	entry.element = c.lruList.PushFront(entry)
	c.entries[key] = entry
	c.currentSize += size

	c.evictIfNecessary()
}

func (c *lruCache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if entry, exists := c.entries[key]; exists {
		c.removeEntry(entry)
	}
}

func (c *lruCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.lruList = list.New()
	c.currentSize = 0
}

func (c *lruCache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return CacheStats{
		TotalSize:      c.currentSize,
		MaxSize:        c.maxSize,
		EntryCount:     len(c.entries),
		HitCount:       c.hitCount,
		MissCount:      c.missCount,
		EvictionCount:  c.evictionCount,
		UtilizationPct: float64(c.currentSize) / float64(c.maxSize) * 100,
	}
}

func (c *lruCache) evictIfNecessary() {
	for c.currentSize > c.maxSize && c.lruList.Len() > 0 {
		entry := c.lruList.Back().Value.(*cacheEntry)
		c.removeEntry(entry)
		c.evictionCount++
		c.logger.Debug("Evicted media cache entry", "key", entry.key, "size", len(entry.asset.Data))
	}
}

func (c *lruCache) removeEntry(entry *cacheEntry) {
	delete(c.entries, entry.key)
	c.lruList.Remove(entry.element)
	c.currentSize -= int64(len(entry.asset.Data))
}
