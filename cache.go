package aspen

import (
	"slices"
	"sync"
)

// CacheEvent is the payload of BaseCache add and remove events.
type CacheEvent struct {
	Cache *BaseCache
	Key   string
	Value any
}

var (
	CacheAdd    = NewEvent[CacheEvent]("add")
	CacheRemove = NewEvent[CacheEvent]("remove")
)

// BaseCache is a keyed store for one kind of loaded asset. It is safe for
// concurrent reads; the loader writes to it from the game thread.
type BaseCache struct {
	mu      sync.RWMutex
	entries map[string]any
	events  *Emitter
}

// NewBaseCache creates an empty cache.
func NewBaseCache() *BaseCache {
	return &BaseCache{entries: make(map[string]any), events: NewEmitter()}
}

// Events returns the cache's emitter.
func (c *BaseCache) Events() *Emitter { return c.events }

// Add stores value under key and emits add.
func (c *BaseCache) Add(key string, value any) *BaseCache {
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
	Emit(c.events, CacheAdd, CacheEvent{Cache: c, Key: key, Value: value})
	return c
}

// Has reports whether key is stored.
func (c *BaseCache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// Exists is an alias for Has.
func (c *BaseCache) Exists(key string) bool { return c.Has(key) }

// Get returns the value under key, or nil.
func (c *BaseCache) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[key]
}

// Remove deletes key and emits remove if it was stored.
func (c *BaseCache) Remove(key string) *BaseCache {
	c.mu.Lock()
	v, ok := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()
	if ok {
		Emit(c.events, CacheRemove, CacheEvent{Cache: c, Key: key, Value: v})
	}
	return c
}

// Keys returns the stored keys, sorted.
func (c *BaseCache) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

// Destroy empties the cache and drops its listeners.
func (c *BaseCache) Destroy() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
	c.events.RemoveAllListeners()
}

// CacheBinary, CacheJSON and the rest name the built-in caches.
const (
	CacheBinary = "binary"
	CacheJSON   = "json"
	CacheText   = "text"
	CacheShader = "shader"
	CacheAudio  = "audio"
	CacheVideo  = "video"
)

// CacheManager holds the game's asset caches. It is a global system,
// available to scenes as "cache".
type CacheManager struct {
	game   *Game
	caches map[string]*BaseCache
	custom map[string]*BaseCache
}

func newCacheManager(game *Game) *CacheManager {
	cm := &CacheManager{
		game:   game,
		caches: make(map[string]*BaseCache),
		custom: make(map[string]*BaseCache),
	}
	for _, name := range []string{CacheBinary, CacheJSON, CacheText, CacheShader, CacheAudio, CacheVideo} {
		cm.caches[name] = NewBaseCache()
	}
	if game != nil {
		Once(game.events, GameDestroy, cm, func(*Game) { cm.Destroy() })
	}
	return cm
}

// Get returns the built-in cache name, or the custom cache name, or nil.
func (cm *CacheManager) Get(name string) *BaseCache {
	if c, ok := cm.caches[name]; ok {
		return c
	}
	return cm.custom[name]
}

func (cm *CacheManager) JSON() *BaseCache   { return cm.caches[CacheJSON] }
func (cm *CacheManager) Text() *BaseCache   { return cm.caches[CacheText] }
func (cm *CacheManager) Binary() *BaseCache { return cm.caches[CacheBinary] }
func (cm *CacheManager) Shader() *BaseCache { return cm.caches[CacheShader] }
func (cm *CacheManager) Audio() *BaseCache  { return cm.caches[CacheAudio] }
func (cm *CacheManager) Video() *BaseCache  { return cm.caches[CacheVideo] }

// AddCustom creates the custom cache name, or returns it if it exists.
func (cm *CacheManager) AddCustom(name string) *BaseCache {
	if c, ok := cm.custom[name]; ok {
		return c
	}
	c := NewBaseCache()
	cm.custom[name] = c
	return c
}

// Destroy empties every cache.
func (cm *CacheManager) Destroy() {
	for _, c := range cm.caches {
		c.Destroy()
	}
	for _, c := range cm.custom {
		c.Destroy()
	}
	clear(cm.custom)
	cm.game = nil
}
