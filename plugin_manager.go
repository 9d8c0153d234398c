package aspen

import (
	"fmt"
	"slices"
)

type globalPlugin struct {
	key     string
	plugin  Plugin
	active  bool
	mapping string
	data    any
}

// PluginManager installs global plugins and wires scene plugins into every
// scene's Systems. It boots with the game.
type PluginManager struct {
	game  *Game
	cache *PluginCache

	plugins      []*globalPlugin
	scenePlugins []string

	pendingGlobal []GlobalPluginEntry
	pendingScene  []ScenePluginEntry
}

func newPluginManager(game *Game) *PluginManager {
	pm := &PluginManager{game: game, cache: game.config.PluginCache}
	Once(game.events, GameBoot, pm, func(*Game) { pm.boot() })
	return pm
}

// Game returns the owning game.
func (pm *PluginManager) Game() *Game { return pm.game }

// Cache returns the plugin cache the manager resolves classes from.
func (pm *PluginManager) Cache() *PluginCache { return pm.cache }

func (pm *PluginManager) boot() {
	cfg := pm.game.config

	globals := slices.Concat(cfg.InstallGlobalPlugins, pm.pendingGlobal)
	pm.pendingGlobal = nil
	for _, e := range globals {
		if e.Key == "" || e.Factory == nil {
			warnf("missing global plugin for key %q", e.Key)
			continue
		}
		if _, err := pm.Install(e.Key, e.Factory, e.Start, e.Mapping, e.Data); err != nil {
			warnf("install global plugin %q: %v", e.Key, err)
		}
	}

	scenes := slices.Concat(cfg.InstallScenePlugins, pm.pendingScene)
	pm.pendingScene = nil
	for _, e := range scenes {
		if e.Key == "" || e.Factory == nil {
			warnf("missing scene plugin for key %q", e.Key)
			continue
		}
		if err := pm.InstallScenePlugin(e.Key, e.Factory, e.Mapping, nil, false); err != nil {
			warnf("install scene plugin %q: %v", e.Key, err)
		}
	}

	if cfg.Metrics && !pm.cache.HasCustom(MetricsPluginKey) {
		if _, err := pm.Install(MetricsPluginKey, NewMetricsPlugin, true, "", cfg.MetricsRegisterer); err != nil {
			warnf("install metrics: %v", err)
		}
	}

	Once(pm.game.events, GameDestroy, pm, func(*Game) { pm.Destroy() })
}

// addToScene copies the global systems into sys and instantiates each scene
// plugin listed in pluginLists. Every instance boots on the scene BOOT event.
func (pm *PluginManager) addToScene(sys *Systems, globals []string, pluginLists [][]string) {
	scene := sys.scene
	injection := sys.settings.Map

	for _, key := range globals {
		v := pm.game.global(key)
		if v == nil {
			continue
		}
		sys.plugins[key] = v
		if alias := injection[key]; alias != "" {
			scene.inject(alias, v)
		}
	}

	for _, list := range pluginLists {
		for _, key := range list {
			core, ok := pm.cache.GetCore(key)
			if !ok || core.Factory == nil {
				continue
			}
			plugin := core.Factory(scene, pm, key)
			if plugin == nil {
				continue
			}
			sys.plugins[core.Mapping] = plugin
			if core.Custom {
				scene.inject(core.Mapping, plugin)
			} else if alias := injection[core.Mapping]; alias != "" {
				scene.inject(alias, plugin)
			}
			Once(sys.events, SceneBoot, plugin, func(*Systems) { plugin.Boot() })
		}
	}

	for _, entry := range pm.plugins {
		if entry.mapping != "" {
			scene.inject(entry.mapping, entry.plugin)
		}
	}
}

// DefaultScenePlugins returns the scene plugin keys every scene gets unless
// it overrides them, including scene plugins installed at runtime.
func (pm *PluginManager) DefaultScenePlugins() []string {
	return slices.Concat(DefaultScenePlugins, pm.scenePlugins)
}

// Install registers a global plugin class under key. A mapping forces the
// plugin to start. Before the game boots the install is queued.
func (pm *PluginManager) Install(key string, factory PluginFactory, start bool, mapping string, data any) (Plugin, error) {
	if factory == nil {
		warnf("invalid plugin for key %q", key)
		return nil, ErrInvalidPlugin
	}
	if pm.cache.HasCustom(key) {
		warnf("plugin key in use: %q", key)
		return nil, fmt.Errorf("%w: %q", ErrPluginKeyInUse, key)
	}
	if mapping != "" {
		start = true
	}
	if !pm.game.isBooted {
		pm.pendingGlobal = append(pm.pendingGlobal, GlobalPluginEntry{
			Key: key, Factory: factory, Start: start, Mapping: mapping, Data: data,
		})
		return nil, nil
	}
	pm.cache.RegisterCustom(key, factory, mapping, data)
	if start {
		return pm.Start(key, ""), nil
	}
	return nil, nil
}

func (pm *PluginManager) getEntry(key string) *globalPlugin {
	for _, e := range pm.plugins {
		if e.key == key {
			return e
		}
	}
	return nil
}

// Start runs the global plugin registered under key, creating it on first
// use. runAs starts a second instance of the same class under another key.
func (pm *PluginManager) Start(key, runAs string) Plugin {
	if runAs == "" {
		runAs = key
	}
	entry := pm.getEntry(runAs)
	if entry != nil {
		if !entry.active {
			entry.active = true
			entry.plugin.Start()
		}
		return entry.plugin
	}

	custom, ok := pm.cache.GetCustom(key)
	if !ok || custom.Factory == nil {
		return nil
	}
	instance := custom.Factory(pm)
	if instance == nil {
		return nil
	}
	entry = &globalPlugin{
		key:     runAs,
		plugin:  instance,
		active:  true,
		mapping: custom.Mapping,
		data:    custom.Data,
	}
	pm.plugins = append(pm.plugins, entry)
	instance.Init(entry.data)
	instance.Start()
	return instance
}

// Stop stops the running global plugin registered under key.
func (pm *PluginManager) Stop(key string) {
	entry := pm.getEntry(key)
	if entry != nil && entry.active {
		entry.active = false
		entry.plugin.Stop()
	}
}

// Get returns the global plugin instance under key, running or stopped.
// When autoStart is set a plugin with no instance yet is started.
func (pm *PluginManager) Get(key string, autoStart bool) Plugin {
	if entry := pm.getEntry(key); entry != nil {
		return entry.plugin
	}
	if autoStart {
		return pm.Start(key, "")
	}
	return nil
}

// GetClass returns the factory registered for a global plugin.
func (pm *PluginManager) GetClass(key string) PluginFactory {
	return pm.cache.GetCustomClass(key)
}

// IsActive reports whether the global plugin under key is running.
func (pm *PluginManager) IsActive(key string) bool {
	entry := pm.getEntry(key)
	return entry != nil && entry.active
}

// InstallScenePlugin registers a scene plugin class and adds it to the list
// every new scene receives. If addToScene is given the plugin is created in
// that scene immediately and booted. fromLoader allows replacing a key that
// is already registered.
func (pm *PluginManager) InstallScenePlugin(key string, factory ScenePluginFactory, mapping string, addToScene *Scene, fromLoader bool) error {
	if factory == nil {
		warnf("invalid scene plugin for key %q", key)
		return ErrInvalidPlugin
	}
	if !pm.game.isBooted && addToScene == nil {
		pm.pendingScene = append(pm.pendingScene, ScenePluginEntry{Key: key, Factory: factory, Mapping: mapping})
		return nil
	}
	if !pm.cache.HasCore(key) {
		pm.cache.Register(key, factory, mapping, true)
	} else if !fromLoader {
		warnf("scene plugin key in use: %q", key)
		return fmt.Errorf("%w: %q", ErrPluginKeyInUse, key)
	}
	if !slices.Contains(pm.scenePlugins, key) {
		pm.scenePlugins = append(pm.scenePlugins, key)
	}

	if addToScene != nil && addToScene.sys != nil {
		instance := factory(addToScene, pm, key)
		if instance == nil {
			return nil
		}
		addToScene.sys.plugins[key] = instance
		if mapping != "" {
			addToScene.inject(mapping, instance)
		}
		instance.Boot()
	}
	return nil
}

// RemoveGlobalPlugin drops the global plugin under key from the manager and
// the cache. The instance is not destroyed.
func (pm *PluginManager) RemoveGlobalPlugin(key string) {
	if entry := pm.getEntry(key); entry != nil {
		pm.plugins = slices.DeleteFunc(pm.plugins, func(e *globalPlugin) bool { return e == entry })
	}
	pm.cache.RemoveCustom(key)
}

// RemoveScenePlugin stops new scenes from receiving the plugin under key.
func (pm *PluginManager) RemoveScenePlugin(key string) {
	pm.cache.Remove(key)
	pm.scenePlugins = slices.DeleteFunc(pm.scenePlugins, func(k string) bool { return k == key })
}

// RegisterGameObject makes a game object factory available through every
// scene's GameObjectFactory.Make.
func (pm *PluginManager) RegisterGameObject(key string, fn GameObjectFactoryFunc) {
	RegisterGameObject(key, fn)
}

// RemoveGameObject removes a game object factory registered with
// RegisterGameObject.
func (pm *PluginManager) RemoveGameObject(key string) {
	RemoveGameObject(key)
}

// Destroy destroys every global plugin and clears the custom classes. When
// the game was destroyed with noReturn the scene plugin classes are cleared
// as well.
func (pm *PluginManager) Destroy() {
	for _, e := range pm.plugins {
		e.plugin.Destroy()
	}
	pm.plugins = nil
	pm.scenePlugins = nil
	pm.cache.DestroyCustomPlugins()
	if pm.game != nil && pm.game.noReturn {
		pm.cache.DestroyCorePlugins()
	}
}
