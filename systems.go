package aspen

import "github.com/hajimehoshi/ebiten/v2"

// Systems is the per-scene container for settings, plugins and events. Every
// Scene owns exactly one.
type Systems struct {
	scene         *Scene
	game          *Game
	config        SceneConfig
	settings      *Settings
	pluginManager *PluginManager
	plugins       map[string]any
	events        *Emitter

	sceneUpdate func(time, delta float64)
}

func newSystems(scene *Scene, cfg SceneConfig) *Systems {
	return &Systems{
		scene:    scene,
		config:   cfg,
		settings: newSettings(cfg),
		plugins:  make(map[string]any),
		events:   NewEmitter(),
	}
}

// Init wires the scene into game: globals and scene plugins are installed,
// then BOOT is emitted.
func (s *Systems) Init(game *Game) {
	s.settings.Status = StatusInit
	s.sceneUpdate = nil
	s.game = game
	s.pluginManager = game.plugins
	s.plugins["events"] = s.events

	game.plugins.addToScene(s, GlobalPlugins, [][]string{
		CoreScenePlugins,
		scenePluginKeys(s),
		physicsPluginKeys(s),
	})

	Emit(s.events, SceneBoot, s)
	s.settings.IsBooted = true
}

// Step runs one update of the scene.
func (s *Systems) Step(time, delta float64) {
	st := Step{Time: time, Delta: delta}
	Emit(s.events, ScenePreUpdate, st)
	Emit(s.events, SceneUpdate, st)
	if s.sceneUpdate != nil && s.settings.Status == StatusRunning {
		s.sceneUpdate(time, delta)
	}
	Emit(s.events, ScenePostUpdate, st)
}

// Render draws the scene's display list through its cameras.
func (s *Systems) Render(screen *ebiten.Image) {
	dl := s.DisplayList()
	if dl != nil {
		dl.DepthSort()
	}
	Emit(s.events, ScenePreRender, screen)
	if cams := s.Cameras(); cams != nil && dl != nil {
		cams.render(screen, dl)
	}
	Emit(s.events, SceneRender, screen)
}

// QueueDepthSort marks the display list for sorting before the next render.
func (s *Systems) QueueDepthSort() {
	if dl := s.DisplayList(); dl != nil {
		dl.QueueDepthSort()
	}
}

// DepthSort sorts the display list now if a sort is queued.
func (s *Systems) DepthSort() {
	if dl := s.DisplayList(); dl != nil {
		dl.DepthSort()
	}
}

// Pause stops the scene updating. It keeps rendering.
func (s *Systems) Pause(data any) *Systems {
	if st := s.settings.Status; st != StatusCreating && st != StatusRunning {
		warnf("cannot pause scene %q while %v", s.settings.Key, st)
		return s
	}
	if s.settings.Active {
		s.settings.Status = StatusPaused
		s.settings.Active = false
		Emit(s.events, ScenePause, SceneData{Sys: s, Data: data})
	}
	return s
}

// Resume restarts updates on a paused scene.
func (s *Systems) Resume(data any) *Systems {
	if !s.settings.Active {
		s.settings.Status = StatusRunning
		s.settings.Active = true
		Emit(s.events, SceneResume, SceneData{Sys: s, Data: data})
	}
	return s
}

// Sleep stops both updating and rendering without shutting the scene down.
func (s *Systems) Sleep(data any) *Systems {
	s.settings.Status = StatusSleeping
	s.settings.Active = false
	s.settings.Visible = false
	Emit(s.events, SceneSleep, SceneData{Sys: s, Data: data})
	return s
}

// Wake resumes a sleeping scene.
func (s *Systems) Wake(data any) *Systems {
	settings := s.settings
	settings.Status = StatusRunning
	settings.Active = true
	settings.Visible = true
	Emit(s.events, SceneWake, SceneData{Sys: s, Data: data})
	if settings.IsTransition {
		Emit(s.events, SceneTransitionWake, Transition{Scene: settings.TransitionFrom, Duration: settings.TransitionDuration})
	}
	return s
}

// GetData returns the data the scene was started with.
func (s *Systems) GetData() any { return s.settings.Data }

// GetStatus returns the scene's lifecycle status.
func (s *Systems) GetStatus() SceneStatus { return s.settings.Status }

// CanInput reports whether the scene is far enough into its lifecycle to
// receive input.
func (s *Systems) CanInput() bool {
	st := s.settings.Status
	return st > StatusPending && st <= StatusRunning
}

func (s *Systems) IsSleeping() bool { return s.settings.Status == StatusSleeping }
func (s *Systems) IsActive() bool   { return s.settings.Status == StatusRunning }
func (s *Systems) IsPaused() bool   { return s.settings.Status == StatusPaused }
func (s *Systems) IsVisible() bool  { return s.settings.Visible }

// IsTransitioning reports whether the scene is the source or target of a
// transition.
func (s *Systems) IsTransitioning() bool {
	if s.settings.IsTransition {
		return true
	}
	p := s.SceneProxy()
	return p != nil && p.target != nil
}

// IsTransitionOut reports whether the scene is transitioning to another scene.
func (s *Systems) IsTransitionOut() bool {
	p := s.SceneProxy()
	return p != nil && p.target != nil && p.duration > 0
}

// IsTransitionIn reports whether another scene is transitioning to this one.
func (s *Systems) IsTransitionIn() bool {
	return s.settings.IsTransition
}

// SetVisible sets whether the scene renders.
func (s *Systems) SetVisible(v bool) *Systems {
	s.settings.Visible = v
	return s
}

// SetActive pauses or resumes the scene.
func (s *Systems) SetActive(v bool, data any) *Systems {
	if v {
		return s.Resume(data)
	}
	return s.Pause(data)
}

// Start moves the scene to START and emits START then READY. Nil data keeps
// the data already in the settings.
func (s *Systems) Start(data any) {
	if data != nil {
		s.settings.Data = data
	}
	s.settings.Status = StatusStart
	s.settings.Active = true
	s.settings.Visible = true
	Emit(s.events, SceneStart, s)
	Emit(s.events, SceneReady, SceneData{Sys: s, Data: s.settings.Data})
}

// Shutdown stops the scene. Plugins release per-run state on SHUTDOWN; the
// scene can be started again.
func (s *Systems) Shutdown(data any) {
	s.events.Off(SceneTransitionInit.Name, nil)
	s.events.Off(SceneTransitionStart.Name, nil)
	s.events.Off(SceneTransitionComplete.Name, nil)
	s.events.Off(SceneTransitionOut.Name, nil)

	s.settings.Status = StatusShutdown
	s.settings.Active = false
	s.settings.Visible = false
	Emit(s.events, SceneShutdown, SceneData{Sys: s, Data: data})
}

// Destroy tears the scene down permanently.
func (s *Systems) Destroy() {
	s.settings.Status = StatusDestroyed
	s.settings.Active = false
	s.settings.Visible = false
	Emit(s.events, SceneDestroy, s)
	s.events.RemoveAllListeners()
	clear(s.plugins)
	s.sceneUpdate = nil
	s.game = nil
	s.pluginManager = nil
}

// Scene returns the owning scene.
func (s *Systems) Scene() *Scene { return s.scene }

// Game returns the game the scene was booted into.
func (s *Systems) Game() *Game { return s.game }

// Config returns the config the scene was created with.
func (s *Systems) Config() SceneConfig { return s.config }

// Settings returns the scene's mutable settings.
func (s *Systems) Settings() *Settings { return s.settings }

// Events returns the scene's event emitter.
func (s *Systems) Events() *Emitter { return s.events }

// PluginManager returns the game's plugin manager.
func (s *Systems) PluginManager() *PluginManager { return s.pluginManager }

// Get returns the plugin or global stored under a Systems key such as
// "time" or "cameras".
func (s *Systems) Get(key string) any { return s.plugins[key] }

// PluginAs returns the plugin stored under key as T, or the zero T.
func PluginAs[T any](s *Systems, key string) T {
	v, _ := s.plugins[key].(T)
	return v
}

func (s *Systems) Clock() *Clock             { return PluginAs[*Clock](s, "time") }
func (s *Systems) Input() *InputPlugin       { return PluginAs[*InputPlugin](s, "input") }
func (s *Systems) Cameras() *CameraManager   { return PluginAs[*CameraManager](s, "cameras") }
func (s *Systems) DisplayList() *DisplayList { return PluginAs[*DisplayList](s, "displayList") }
func (s *Systems) UpdateList() *UpdateList   { return PluginAs[*UpdateList](s, "updateList") }
func (s *Systems) Add() *GameObjectFactory   { return PluginAs[*GameObjectFactory](s, "add") }
func (s *Systems) SceneProxy() *SceneProxy   { return PluginAs[*SceneProxy](s, "scenePlugin") }
func (s *Systems) Tweens() *TweenManager     { return PluginAs[*TweenManager](s, "tweens") }
func (s *Systems) Data() *DataManagerPlugin  { return PluginAs[*DataManagerPlugin](s, "data") }
func (s *Systems) Load() *LoaderPlugin       { return PluginAs[*LoaderPlugin](s, "load") }
func (s *Systems) Registry() *DataManager    { return PluginAs[*DataManager](s, "registry") }
func (s *Systems) Cache() *CacheManager      { return PluginAs[*CacheManager](s, "cache") }
