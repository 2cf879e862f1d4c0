// Package keyframes extracts and caches still frames used as timeline
// thumbnails. The cache is capped by total bytes on disk, not entry
// count, since frame sizes vary widely with source resolution.
package keyframes

import (
	"container/list"
	"log/slog"
	"os"
	"sync"
)

type cacheEntry struct {
	key  string
	path string
	size int64
}

// Cache is a byte-size-capped LRU over extracted frame files. Evicted
// entries have their backing file removed from disk.
type Cache struct {
	mu       sync.Mutex
	maxBytes int64
	curBytes int64
	order    *list.List
	items    map[string]*list.Element
	logger   *slog.Logger
}

func NewCache(maxBytes int64, logger *slog.Logger) *Cache {
	return &Cache{
		maxBytes: maxBytes,
		order:    list.New(),
		items:    make(map[string]*list.Element),
		logger:   logger,
	}
}

// Get returns the cached file path for key, refreshing its recency.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).path, true
}

// Put records an extracted frame file and evicts least-recently-used
// entries until the byte cap holds. A single entry larger than the cap
// is admitted alone.
func (c *Cache) Put(key, path string, size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*cacheEntry)
		c.curBytes += size - entry.size
		entry.path = path
		entry.size = size
		c.order.MoveToFront(elem)
	} else {
		elem := c.order.PushFront(&cacheEntry{key: key, path: path, size: size})
		c.items[key] = elem
		c.curBytes += size
	}

	for c.curBytes > c.maxBytes && c.order.Len() > 1 {
		c.evictOldest()
	}
}

// Remove drops one entry and its file.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return
	}
	c.removeElement(elem)
}

// Clear drops every entry and its file.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.order.Len() > 0 {
		c.removeElement(c.order.Back())
	}
}

// Len returns the number of cached frames.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Bytes returns the tracked on-disk size of the cache.
func (c *Cache) Bytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.curBytes
}

func (c *Cache) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*cacheEntry)
	if c.logger != nil {
		c.logger.Debug("evicting cached keyframe", "key", entry.key, "size", entry.size)
	}
	c.removeElement(elem)
}

func (c *Cache) removeElement(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	c.order.Remove(elem)
	delete(c.items, entry.key)
	c.curBytes -= entry.size
	if err := os.Remove(entry.path); err != nil && !os.IsNotExist(err) && c.logger != nil {
		c.logger.Warn("failed to remove cached keyframe file", "path", entry.path, "error", err)
	}
}
