package aspen

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"
)

// FPSConfig controls the TimeStep.
type FPSConfig struct {
	// Target is the desired frame rate.
	Target float64 `env:"TARGET"`
	// Min is the lowest frame rate the loop assumes before clamping deltas.
	Min float64 `env:"MIN"`
	// Limit caps the headless loop frame rate. Zero uses Target.
	Limit float64 `env:"LIMIT"`
	// SmoothStep averages the delta over DeltaHistory frames.
	SmoothStep bool `env:"SMOOTH_STEP"`
	// DeltaHistory is the number of frames averaged by SmoothStep.
	DeltaHistory int `env:"DELTA_HISTORY"`
	// PanicMax is the number of frames after a reset during which the delta
	// is clamped to the target frame time.
	PanicMax int `env:"PANIC_MAX"`
}

// InputConfig controls the global input manager and which input plugins
// scenes receive by default.
type InputConfig struct {
	Keyboard bool `env:"KEYBOARD"`
	Mouse    bool `env:"MOUSE"`
	Touch    bool `env:"TOUCH"`
	Gamepad  bool `env:"GAMEPAD"`
	// TopOnly stops pointer processing at the first scene that hit an
	// interactive node.
	TopOnly bool `env:"TOP_ONLY"`
	// DragDeadZone is the distance in pixels a pointer must travel before a
	// drag starts.
	DragDeadZone float64 `env:"DRAG_DEAD_ZONE"`
}

// LoaderConfig controls the per-scene loader.
type LoaderConfig struct {
	MaxParallel int `env:"MAX_PARALLEL"`
}

// GlobalPluginEntry installs a global plugin at boot.
type GlobalPluginEntry struct {
	Key     string
	Factory PluginFactory
	Start   bool
	Mapping string
	Data    any
}

// ScenePluginEntry installs a scene plugin at boot.
type ScenePluginEntry struct {
	Key     string
	Factory ScenePluginFactory
	Mapping string
}

// GameConfig configures a Game. Start from DefaultGameConfig; boolean
// options are not defaulted from their zero values.
type GameConfig struct {
	Title  string
	Width  int
	Height int
	Debug  bool

	// BackgroundColor fills the screen before scenes render.
	BackgroundColor Color

	FPS    FPSConfig
	Input  InputConfig
	Loader LoaderConfig

	// DefaultPhysics names a physics system every scene installs, e.g. "arcade".
	DefaultPhysics string

	// Metrics installs the MetricsPlugin as a global plugin at boot.
	Metrics bool
	// MetricsRegisterer receives the metrics collectors. Nil uses a private registry.
	MetricsRegisterer prometheus.Registerer

	// Scenes are added at boot; the first one starts automatically.
	Scenes []Sceneable

	InstallGlobalPlugins []GlobalPluginEntry
	InstallScenePlugins  []ScenePluginEntry

	// InputSource replaces the default Ebitengine input polling.
	InputSource RawInput

	// PluginCache and InputPluginCache default to the package caches.
	PluginCache      *PluginCache
	InputPluginCache *InputPluginCache
}

// DefaultGameConfig returns the configuration used when no overrides apply.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Title:  "aspen",
		Width:  800,
		Height: 600,
		FPS: FPSConfig{
			Target:       60,
			Min:          5,
			SmoothStep:   true,
			DeltaHistory: 10,
			PanicMax:     120,
		},
		Input: InputConfig{
			Keyboard:     true,
			Mouse:        true,
			Touch:        true,
			Gamepad:      true,
			TopOnly:      true,
			DragDeadZone: defaultDragDeadZone,
		},
		Loader: LoaderConfig{MaxParallel: 32},
	}
}

// envConfig is the subset of GameConfig that can be overridden from the
// environment. Variables are read with the ASPEN_ prefix.
type envConfig struct {
	Title          string       `env:"TITLE"`
	Width          int          `env:"WIDTH"`
	Height         int          `env:"HEIGHT"`
	Debug          bool         `env:"DEBUG"`
	DefaultPhysics string       `env:"PHYSICS_DEFAULT"`
	Metrics        bool         `env:"METRICS"`
	FPS            FPSConfig    `envPrefix:"FPS_"`
	Input          InputConfig  `envPrefix:"INPUT_"`
	Loader         LoaderConfig `envPrefix:"LOADER_"`
}

// LoadGameConfig overlays ASPEN_* environment variables onto base. Variables
// that are not set leave the base value untouched.
func LoadGameConfig(base GameConfig) (GameConfig, error) {
	ec := envConfig{
		Title:          base.Title,
		Width:          base.Width,
		Height:         base.Height,
		Debug:          base.Debug,
		DefaultPhysics: base.DefaultPhysics,
		Metrics:        base.Metrics,
		FPS:            base.FPS,
		Input:          base.Input,
		Loader:         base.Loader,
	}
	if err := env.ParseWithOptions(&ec, env.Options{Prefix: "ASPEN_"}); err != nil {
		return base, fmt.Errorf("parse env: %w", err)
	}
	base.Title = ec.Title
	base.Width = ec.Width
	base.Height = ec.Height
	base.Debug = ec.Debug
	base.DefaultPhysics = ec.DefaultPhysics
	base.Metrics = ec.Metrics
	base.FPS = ec.FPS
	base.Input = ec.Input
	base.Loader = ec.Loader
	return base, nil
}

// normalize fills zero numeric fields with their defaults.
func (c *GameConfig) normalize() {
	def := DefaultGameConfig()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.FPS.Target <= 0 {
		c.FPS.Target = def.FPS.Target
	}
	if c.FPS.Min <= 0 {
		c.FPS.Min = def.FPS.Min
	}
	if c.FPS.DeltaHistory <= 0 {
		c.FPS.DeltaHistory = def.FPS.DeltaHistory
	}
	if c.FPS.PanicMax < 0 {
		c.FPS.PanicMax = 0
	}
	if c.Input.DragDeadZone <= 0 {
		c.Input.DragDeadZone = def.Input.DragDeadZone
	}
	if c.Loader.MaxParallel <= 0 {
		c.Loader.MaxParallel = def.Loader.MaxParallel
	}
	if c.PluginCache == nil {
		c.PluginCache = DefaultPluginCache
	}
	if c.InputPluginCache == nil {
		c.InputPluginCache = DefaultInputPluginCache
	}
}

// inputFlag resolves an input plugin config key such as "inputKeyboard".
func (c *GameConfig) inputFlag(key string) bool {
	switch key {
	case "inputKeyboard":
		return c.Input.Keyboard
	case "inputMouse":
		return c.Input.Mouse
	case "inputTouch":
		return c.Input.Touch
	case "inputGamepad":
		return c.Input.Gamepad
	}
	return false
}
