package aspen

// Sceneable is any value that can be added to the SceneManager. User scene
// types embed *Scene to satisfy it.
type Sceneable interface {
	Base() *Scene
}

// Initializer is implemented by scenes with an init hook. It runs before
// Preload each time the scene starts.
type Initializer interface {
	Init(data any)
}

// Preloader is implemented by scenes that queue loader jobs before Create.
type Preloader interface {
	Preload()
}

// Creator is implemented by scenes with a create hook. It runs once loading
// completes.
type Creator interface {
	Create(data any)
}

// Updater is implemented by scenes that update every frame while running.
type Updater interface {
	Update(time, delta float64)
}

// EntityStore is the interface for optional ECS integration.
// When set on an InputPlugin, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      EventType
	EntityID  uint32
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	Modifiers KeyModifiers
	// Drag fields (valid for EventDragStart, EventDrag, EventDragEnd)
	StartX float64
	StartY float64
	DeltaX float64
	DeltaY float64
	// Pinch fields (valid for EventPinch)
	Scale      float64
	ScaleDelta float64
	Rotation   float64
	RotDelta   float64
}

// Scene is the user-facing handle of a scene. The plugins a scene receives
// are reachable through Get by their injection alias, or through the typed
// accessors.
type Scene struct {
	sys        *Systems
	injected   map[string]any
	controller Sceneable
}

// NewScene creates a scene from cfg. Embed the result in a struct to add
// hooks:
//
//	type Level struct{ *aspen.Scene }
//	func (l *Level) Create(data any) { ... }
//	game.Scenes().Add("level", &Level{aspen.NewScene(aspen.SceneConfig{})}, true, nil)
func NewScene(cfg SceneConfig) *Scene {
	s := &Scene{injected: make(map[string]any)}
	s.sys = newSystems(s, cfg)
	s.controller = s
	return s
}

// Base returns s. It makes *Scene a Sceneable.
func (s *Scene) Base() *Scene { return s }

// Sys returns the scene's systems.
func (s *Scene) Sys() *Systems { return s.sys }

// Key returns the scene's key.
func (s *Scene) Key() string { return s.sys.settings.Key }

// Controller returns the value that was added to the SceneManager, which is
// the user type embedding the scene.
func (s *Scene) Controller() Sceneable { return s.controller }

// Get returns the value injected under alias, e.g. "time" or "children".
func (s *Scene) Get(alias string) any { return s.injected[alias] }

func (s *Scene) inject(alias string, v any) {
	s.injected[alias] = v
}

// Injected returns the value injected into s under alias as T.
func Injected[T any](s *Scene, alias string) (T, bool) {
	v, ok := s.injected[alias].(T)
	return v, ok
}

func (s *Scene) Game() *Game              { return s.sys.game }
func (s *Scene) Events() *Emitter         { return s.sys.events }
func (s *Scene) Plugins() *PluginManager  { return s.sys.pluginManager }
func (s *Scene) Time() *Clock             { return s.sys.Clock() }
func (s *Scene) Input() *InputPlugin      { return s.sys.Input() }
func (s *Scene) Cameras() *CameraManager  { return s.sys.Cameras() }
func (s *Scene) Children() *DisplayList   { return s.sys.DisplayList() }
func (s *Scene) Add() *GameObjectFactory  { return s.sys.Add() }
func (s *Scene) Tweens() *TweenManager    { return s.sys.Tweens() }
func (s *Scene) Data() *DataManagerPlugin { return s.sys.Data() }
func (s *Scene) Load() *LoaderPlugin      { return s.sys.Load() }
func (s *Scene) Proxy() *SceneProxy       { return s.sys.SceneProxy() }
func (s *Scene) Registry() *DataManager   { return s.sys.Registry() }
func (s *Scene) Cache() *CacheManager     { return s.sys.Cache() }
func (s *Scene) UpdateList() *UpdateList  { return s.sys.UpdateList() }

// hooks resolved from the controller first, then the config funcs.

func (s *Scene) runInit(data any) bool {
	if h, ok := s.controller.(Initializer); ok {
		h.Init(data)
		return true
	}
	if fn := s.sys.config.Init; fn != nil {
		fn(s, data)
		return true
	}
	return false
}

func (s *Scene) runPreload() bool {
	if h, ok := s.controller.(Preloader); ok {
		h.Preload()
		return true
	}
	if fn := s.sys.config.Preload; fn != nil {
		fn(s)
		return true
	}
	return false
}

func (s *Scene) runCreate(data any) {
	if h, ok := s.controller.(Creator); ok {
		h.Create(data)
		return
	}
	if fn := s.sys.config.Create; fn != nil {
		fn(s, data)
	}
}

func (s *Scene) updateHook() func(time, delta float64) {
	if h, ok := s.controller.(Updater); ok {
		return h.Update
	}
	if fn := s.sys.config.Update; fn != nil {
		return func(time, delta float64) { fn(s, time, delta) }
	}
	return nil
}
