package aspen

import (
	"slices"
	"sync"
)

// CorePlugin is a scene plugin class registered in a PluginCache.
type CorePlugin struct {
	Factory ScenePluginFactory
	// Mapping is the Systems key the instance is stored under.
	Mapping string
	// Custom plugins are injected into the scene at Mapping directly rather
	// than through the scene's injection map.
	Custom bool
}

// CustomPlugin is a global plugin class registered in a PluginCache.
type CustomPlugin struct {
	Factory PluginFactory
	Mapping string
	Data    any
}

// PluginCache holds the scene plugin classes and global plugin classes
// available to every game that uses it.
type PluginCache struct {
	mu       sync.RWMutex
	core     map[string]CorePlugin
	coreKeys []string
	custom   map[string]CustomPlugin
}

// NewPluginCache returns an empty cache.
func NewPluginCache() *PluginCache {
	return &PluginCache{
		core:   make(map[string]CorePlugin),
		custom: make(map[string]CustomPlugin),
	}
}

// DefaultPluginCache is shared by all games that do not supply their own.
// The built-in scene plugins register themselves into it.
var DefaultPluginCache = NewPluginCache()

// Register stores a scene plugin class under key, replacing any previous one.
func (c *PluginCache) Register(key string, factory ScenePluginFactory, mapping string, custom bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.core[key]; !ok {
		c.coreKeys = append(c.coreKeys, key)
	}
	c.core[key] = CorePlugin{Factory: factory, Mapping: mapping, Custom: custom}
}

// RegisterCustom stores a global plugin class under key.
func (c *PluginCache) RegisterCustom(key string, factory PluginFactory, mapping string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.custom[key] = CustomPlugin{Factory: factory, Mapping: mapping, Data: data}
}

// HasCore reports whether a scene plugin class is registered under key.
func (c *PluginCache) HasCore(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.core[key]
	return ok
}

// HasCustom reports whether a global plugin class is registered under key.
func (c *PluginCache) HasCustom(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.custom[key]
	return ok
}

// GetCore returns the scene plugin class registered under key.
func (c *PluginCache) GetCore(key string) (CorePlugin, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.core[key]
	return p, ok
}

// GetCustom returns the global plugin class registered under key.
func (c *PluginCache) GetCustom(key string) (CustomPlugin, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.custom[key]
	return p, ok
}

// GetCustomClass returns the factory of the global plugin registered under
// key, or nil.
func (c *PluginCache) GetCustomClass(key string) PluginFactory {
	p, _ := c.GetCustom(key)
	return p.Factory
}

// CoreKeys returns the registered scene plugin keys in registration order.
func (c *PluginCache) CoreKeys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.coreKeys)
}

// Remove deletes the scene plugin class registered under key.
func (c *PluginCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.core[key]; !ok {
		return
	}
	delete(c.core, key)
	c.coreKeys = slices.DeleteFunc(c.coreKeys, func(k string) bool { return k == key })
}

// RemoveCustom deletes the global plugin class registered under key.
func (c *PluginCache) RemoveCustom(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.custom, key)
}

// DestroyCorePlugins removes every scene plugin class, including built-ins.
func (c *PluginCache) DestroyCorePlugins() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.core)
	c.coreKeys = nil
}

// DestroyCustomPlugins removes every global plugin class.
func (c *PluginCache) DestroyCustomPlugins() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.custom)
}
