package aspen

// Plugin is a global plugin owned by the PluginManager. Init receives the
// data given at install time and runs once; Start and Stop may run many times.
type Plugin interface {
	Init(data any)
	Start()
	Stop()
	Destroy()
}

// PluginFactory creates a global plugin instance.
type PluginFactory func(pm *PluginManager) Plugin

// ScenePlugin is created once per scene that lists it. Boot runs when the
// scene's systems boot.
type ScenePlugin interface {
	Boot()
	Destroy()
}

// ScenePluginFactory creates a scene plugin instance for one scene. key is
// the plugin's cache key.
type ScenePluginFactory func(scene *Scene, pm *PluginManager, key string) ScenePlugin

// BasePlugin is embedded by global plugins for no-op lifecycle methods.
type BasePlugin struct {
	pluginManager *PluginManager
	game          *Game
}

// NewBasePlugin returns a BasePlugin bound to pm.
func NewBasePlugin(pm *PluginManager) BasePlugin {
	bp := BasePlugin{pluginManager: pm}
	if pm != nil {
		bp.game = pm.game
	}
	return bp
}

// PluginManager returns the manager that owns the plugin.
func (p *BasePlugin) PluginManager() *PluginManager { return p.pluginManager }

// Game returns the game the plugin belongs to.
func (p *BasePlugin) Game() *Game { return p.game }

func (p *BasePlugin) Init(data any) {}
func (p *BasePlugin) Start()        {}
func (p *BasePlugin) Stop()         {}

// Destroy drops the plugin's references.
func (p *BasePlugin) Destroy() {
	p.pluginManager = nil
	p.game = nil
}

// ScenePluginBase is embedded by scene plugins. It records the owning
// scene, its systems and the plugin's key.
type ScenePluginBase struct {
	BasePlugin
	scene     *Scene
	systems   *Systems
	pluginKey string
}

// NewScenePluginBase returns a ScenePluginBase for scene.
func NewScenePluginBase(scene *Scene, pm *PluginManager, key string) ScenePluginBase {
	sp := ScenePluginBase{BasePlugin: NewBasePlugin(pm), scene: scene, pluginKey: key}
	if scene != nil {
		sp.systems = scene.sys
	}
	return sp
}

// Scene returns the scene that owns the plugin.
func (p *ScenePluginBase) Scene() *Scene { return p.scene }

// Systems returns the owning scene's systems.
func (p *ScenePluginBase) Systems() *Systems { return p.systems }

// PluginKey returns the key the plugin was created under.
func (p *ScenePluginBase) PluginKey() string { return p.pluginKey }

func (p *ScenePluginBase) Boot() {}

// Destroy drops the plugin's references.
func (p *ScenePluginBase) Destroy() {
	p.BasePlugin.Destroy()
	p.scene = nil
	p.systems = nil
}
