// Package cache holds decrypted payloads in memory for the lifetime of an
// authenticated session. It is a read accelerator only and is never
// written back to disk. Unlike the maps it replaces, the cache is bounded
// by a byte budget with LRU eviction.
package cache

import (
	"container/list"
	"sync"

	"mediavault/internal/events"
)

// Loader fetches and decrypts one payload on cache miss.
type Loader func(id string) ([]byte, error)

// folderKeyPrefix namespaces folder preview entries alongside content
// entries in the same budget.
const folderKeyPrefix = "folder/"

type entry struct {
	key  string
	data []byte
}

type flight struct {
	wg   sync.WaitGroup
	data []byte
	err  error
}

// Cache is a byte-budget LRU over decrypted payloads.
type Cache struct {
	logger *events.Logger

	mu       sync.Mutex
	maxBytes int64
	curBytes int64
	ll       *list.List // front = most recently used
	entries  map[string]*list.Element
	flights  map[string]*flight
}

// New creates a cache with the given byte budget.
func New(maxBytes int64, logger *events.Logger) *Cache {
	return &Cache{
		logger:   logger.WithField("component", "session_cache"),
		maxBytes: maxBytes,
		ll:       list.New(),
		entries:  make(map[string]*list.Element),
		flights:  make(map[string]*flight),
	}
}

// GetOrLoad returns the cached payload for id, loading it at most once per
// session. Concurrent callers for the same id share one load.
func (c *Cache) GetOrLoad(id string, load Loader) ([]byte, error) {
	return c.getOrLoad(id, func() ([]byte, error) { return load(id) })
}

// GetOrLoadBatch resolves many ids with per-id results. Only uncached ids
// are loaded, and one id's failure never aborts the rest.
func (c *Cache) GetOrLoadBatch(ids []string, load Loader) (map[string][]byte, map[string]error) {
	results := make(map[string][]byte)
	errs := make(map[string]error)

	for _, id := range ids {
		data, err := c.GetOrLoad(id, load)
		if err != nil {
			errs[id] = err
			continue
		}
		results[id] = data
	}

	return results, errs
}

// GetOrLoadPreview resolves the preview payload for a folder.
func (c *Cache) GetOrLoadPreview(folderID string, load func() ([]byte, error)) ([]byte, error) {
	return c.getOrLoad(folderKeyPrefix+folderID, load)
}

// Invalidate drops the content entry for id.
func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(id)
}

// InvalidateFolder drops the preview entry for a folder.
func (c *Cache) InvalidateFolder(folderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(folderKeyPrefix + folderID)
}

// Clear drops every entry. Called on logout.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll.Init()
	c.entries = make(map[string]*list.Element)
	c.curBytes = 0
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Bytes returns the cached payload bytes currently held.
func (c *Cache) Bytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.curBytes
}

func (c *Cache) getOrLoad(key string, load func() ([]byte, error)) ([]byte, error) {
	c.mu.Lock()

	if elem, ok := c.entries[key]; ok {
		c.ll.MoveToFront(elem)
		data := elem.Value.(*entry).data
		c.mu.Unlock()
		return data, nil
	}

	if f, ok := c.flights[key]; ok {
		c.mu.Unlock()
		f.wg.Wait()
		return f.data, f.err
	}

	f := &flight{}
	f.wg.Add(1)
	c.flights[key] = f
	c.mu.Unlock()

	data, err := load()

	c.mu.Lock()
	delete(c.flights, key)
	if err == nil {
		c.add(key, data)
	}
	c.mu.Unlock()

	f.data = data
	f.err = err
	f.wg.Done()

	return data, err
}

// add inserts an entry and evicts from the LRU tail until the budget
// holds. Payloads larger than the whole budget are served uncached.
func (c *Cache) add(key string, data []byte) {
	size := int64(len(data))
	if size > c.maxBytes {
		c.logger.WithFields(map[string]interface{}{
			"key":  key,
			"size": size,
		}).Warn("Payload exceeds cache budget, serving uncached")
		return
	}

	if elem, ok := c.entries[key]; ok {
		c.curBytes -= int64(len(elem.Value.(*entry).data))
		elem.Value.(*entry).data = data
		c.ll.MoveToFront(elem)
	} else {
		c.entries[key] = c.ll.PushFront(&entry{key: key, data: data})
	}
	c.curBytes += size

	for c.curBytes > c.maxBytes {
		oldest := c.ll.Back()
		if oldest == nil {
			break
		}
		evicted := oldest.Value.(*entry)
		c.logger.WithField("key", evicted.key).Debug("Evicting cache entry")
		c.remove(evicted.key)
	}
}

func (c *Cache) remove(key string) {
	elem, ok := c.entries[key]
	if !ok {
		return
	}
	c.curBytes -= int64(len(elem.Value.(*entry).data))
	c.ll.Remove(elem)
	delete(c.entries, key)
}
