package aspen

import (
	"slices"
	"sync"
)

// InputSubPlugin is a plugin installed into a scene's InputPlugin, such as
// the keyboard or gamepad plugin.
type InputSubPlugin interface {
	IsActive() bool
}

// InputPluginFactory creates a sub-plugin for one InputPlugin.
type InputPluginFactory func(input *InputPlugin) InputSubPlugin

// InputPluginEntry describes a registered input sub-plugin.
type InputPluginEntry struct {
	Key     string
	Factory InputPluginFactory
	// Mapping is the key the instance is stored under on the InputPlugin.
	Mapping string
	// SettingsKey is looked up in the scene's SceneConfig.Input map.
	SettingsKey string
	// ConfigKey is the game config flag used when the scene does not set
	// SettingsKey, e.g. "inputKeyboard".
	ConfigKey string
}

// InputPluginCache holds the sub-plugins installed into every InputPlugin.
type InputPluginCache struct {
	mu      sync.RWMutex
	entries map[string]InputPluginEntry
	order   []string
}

// NewInputPluginCache returns an empty cache.
func NewInputPluginCache() *InputPluginCache {
	return &InputPluginCache{entries: make(map[string]InputPluginEntry)}
}

// DefaultInputPluginCache is shared by all games that do not supply their own.
var DefaultInputPluginCache = NewInputPluginCache()

// Register stores an input sub-plugin under key.
func (c *InputPluginCache) Register(key string, factory InputPluginFactory, mapping, settingsKey, configKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = InputPluginEntry{
		Key:         key,
		Factory:     factory,
		Mapping:     mapping,
		SettingsKey: settingsKey,
		ConfigKey:   configKey,
	}
}

// Get returns the entry registered under key.
func (c *InputPluginCache) Get(key string) (InputPluginEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// Remove deletes the entry registered under key.
func (c *InputPluginCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	c.order = slices.DeleteFunc(c.order, func(k string) bool { return k == key })
}

func (c *InputPluginCache) snapshot() []InputPluginEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]InputPluginEntry, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.entries[k])
	}
	return out
}

// Install creates the sub-plugins target's scene should have. A scene's
// SceneConfig.Input entry wins over the game config flag.
func (c *InputPluginCache) Install(target *InputPlugin) {
	sys := target.Systems()
	settings := sys.Settings()
	cfg := sys.Game().Config()
	for _, e := range c.snapshot() {
		enabled, ok := settings.Input[e.SettingsKey]
		if !ok {
			enabled = cfg.inputFlag(e.ConfigKey)
		}
		if !enabled || e.Factory == nil {
			continue
		}
		target.plugins[e.Mapping] = e.Factory(target)
	}
}
