package aspen

import "maps"

// SceneStatus is the lifecycle state of a scene.
type SceneStatus int

const (
	StatusPending SceneStatus = iota
	StatusInit
	StatusStart
	StatusLoading
	StatusCreating
	StatusRunning
	StatusPaused
	StatusSleeping
	StatusShutdown
	StatusDestroyed
)

var statusNames = [...]string{
	"pending", "init", "start", "loading", "creating",
	"running", "paused", "sleeping", "shutdown", "destroyed",
}

func (s SceneStatus) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// CameraConfig describes a camera created when a scene starts.
type CameraConfig struct {
	Name                string
	X, Y, Width, Height float64
	// ScrollX and ScrollY are the world position the camera centers on.
	ScrollX, ScrollY float64
	Zoom             float64
	Rotation         float64
	BackgroundColor  Color
	Hidden           bool
}

// SceneConfig describes a scene. Hook funcs are used when the scene value
// does not implement the matching hook interface.
type SceneConfig struct {
	Key    string
	Active bool
	Hidden bool

	// Plugins overrides the default scene plugin list. Nil uses the defaults;
	// an empty non-nil slice installs none.
	Plugins []string
	// Map replaces the injection map; MapAdd extends the default one.
	Map    map[string]string
	MapAdd map[string]string

	// Physics lists the physics systems this scene uses, keyed by name.
	Physics map[string]any
	// Input overrides per-scene input plugin installation, keyed by the
	// plugin's settings key ("keyboard", "gamepad").
	Input map[string]bool

	Cameras []CameraConfig
	Data    any

	Init    func(s *Scene, data any)
	Preload func(s *Scene)
	Create  func(s *Scene, data any)
	Update  func(s *Scene, time, delta float64)
}

// Settings is the mutable per-scene state derived from a SceneConfig.
type Settings struct {
	Status  SceneStatus
	Key     string
	Active  bool
	Visible bool

	IsBooted bool

	IsTransition         bool
	TransitionFrom       *Scene
	TransitionDuration   float64
	TransitionAllowInput bool

	Data    any
	Plugins []string
	Map     map[string]string
	Physics map[string]any
	Input   map[string]bool
	Cameras []CameraConfig
}

func newSettings(cfg SceneConfig) *Settings {
	injection := cfg.Map
	if injection == nil {
		injection = maps.Clone(InjectionMap)
		maps.Copy(injection, cfg.MapAdd)
	} else {
		injection = maps.Clone(injection)
	}
	return &Settings{
		Status:               StatusPending,
		Key:                  cfg.Key,
		Active:               cfg.Active,
		Visible:              !cfg.Hidden,
		TransitionAllowInput: true,
		Data:                 cfg.Data,
		Plugins:              cfg.Plugins,
		Map:                  injection,
		Physics:              cfg.Physics,
		Input:                cfg.Input,
		Cameras:              cfg.Cameras,
	}
}
