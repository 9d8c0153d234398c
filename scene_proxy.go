package aspen

import (
	"github.com/tanema/gween/ease"
)

// TransitionConfig describes a scene transition started with
// SceneProxy.Transition.
type TransitionConfig struct {
	// Target is the key of the scene to transition to.
	Target string
	// Duration in milliseconds. Zero uses 1000.
	Duration float64
	// Sleep puts this scene to sleep when the transition completes instead of
	// stopping it.
	Sleep bool
	// Remove removes this scene from the manager when the transition completes.
	Remove bool
	// AllowInput keeps this scene's input enabled during the transition.
	AllowInput bool
	// MoveAbove and MoveBelow place the target relative to this scene.
	MoveAbove bool
	MoveBelow bool
	// Data is passed to the target when it starts or wakes.
	Data any
	// OnUpdate receives the eased progress, 0 to 1, every update.
	OnUpdate func(progress float64)
	// Ease shapes the progress passed to OnUpdate. Nil is linear.
	Ease ease.TweenFunc
}

const defaultTransitionDuration = 1000

// SceneProxy is the per-scene plugin that controls the SceneManager on the
// scene's behalf. It is injected as "scene".
type SceneProxy struct {
	ScenePluginBase
	key     string
	manager *SceneManager

	target         *Scene
	duration       float64
	elapsed        float64
	onUpdate       func(progress float64)
	ease           ease.TweenFunc
	willSleep      bool
	willRemove     bool
	transitionStep Listener
}

func init() {
	DefaultPluginCache.Register("SceneProxy", func(scene *Scene, pm *PluginManager, key string) ScenePlugin {
		return newSceneProxy(scene, pm, key)
	}, "scenePlugin", false)
}

func newSceneProxy(scene *Scene, pm *PluginManager, key string) *SceneProxy {
	p := &SceneProxy{ScenePluginBase: NewScenePluginBase(scene, pm, key)}
	if pm != nil && pm.game != nil {
		p.manager = pm.game.scene
	}
	On(p.systems.events, SceneStart, p, func(*Systems) { p.pluginStart() })
	return p
}

func (p *SceneProxy) Boot() {
	p.key = p.systems.settings.Key
	On(p.systems.events, SceneDestroy, p, func(*Systems) { p.Destroy() })
}

func (p *SceneProxy) pluginStart() {
	p.key = p.systems.settings.Key
	On(p.systems.events, SceneShutdown, p, func(SceneData) { p.shutdown() })
}

// Key returns the key of the scene that owns the proxy.
func (p *SceneProxy) Key() string { return p.key }

// Manager returns the game's scene manager.
func (p *SceneProxy) Manager() *SceneManager { return p.manager }

func (p *SceneProxy) keyOr(key string) string {
	if key == "" {
		return p.key
	}
	return key
}

// Start shuts this scene down and starts the scene under key, or restarts
// this scene when key is empty. The change happens on the next update.
func (p *SceneProxy) Start(key string, data any) *SceneProxy {
	key = p.keyOr(key)
	p.manager.queueOp(opStop, p.key, "", nil)
	p.manager.queueOp(opStart, key, "", data)
	return p
}

// Restart restarts this scene on the next update.
func (p *SceneProxy) Restart(data any) *SceneProxy {
	p.manager.queueOp(opStop, p.key, "", nil)
	p.manager.queueOp(opStart, p.key, "", data)
	return p
}

// Launch starts the scene under key in parallel with this one.
func (p *SceneProxy) Launch(key string, data any) *SceneProxy {
	if key != "" && key != p.key {
		p.manager.queueOp(opStart, key, "", data)
	}
	return p
}

// Run wakes, resumes or starts the scene under key in parallel with this one.
func (p *SceneProxy) Run(key string, data any) *SceneProxy {
	if key != "" && key != p.key {
		p.manager.queueOp(opRun, key, "", data)
	}
	return p
}

// Switch sleeps this scene and wakes or starts the scene under key.
func (p *SceneProxy) Switch(key string, data any) *SceneProxy {
	if key != p.key {
		p.manager.queueOp(opSwitch, p.key, key, data)
	}
	return p
}

// Transition moves from this scene to cfg.Target over cfg.Duration. It
// returns false when the transition is not possible: the target is missing,
// already running, already transitioning or is this scene, or this scene is
// already transitioning.
func (p *SceneProxy) Transition(cfg TransitionConfig) bool {
	target := p.manager.GetScene(cfg.Target)
	if !p.checkValidTransition(target) {
		return false
	}
	sys := p.systems

	duration := cfg.Duration
	if duration <= 0 {
		duration = defaultTransitionDuration
	}
	p.elapsed = 0
	p.target = target
	p.duration = duration
	p.willSleep = cfg.Sleep
	p.willRemove = cfg.Remove
	p.onUpdate = cfg.OnUpdate
	p.ease = cfg.Ease

	sys.settings.TransitionAllowInput = cfg.AllowInput

	ts := target.sys.settings
	ts.IsTransition = true
	ts.TransitionFrom = p.scene
	ts.TransitionDuration = duration
	ts.TransitionAllowInput = cfg.AllowInput

	if cfg.MoveAbove {
		p.manager.MoveAbove(p.key, cfg.Target)
	} else if cfg.MoveBelow {
		p.manager.MoveBelow(p.key, cfg.Target)
	}

	if target.sys.IsSleeping() {
		target.sys.Wake(cfg.Data)
	} else {
		p.manager.Start(cfg.Target, cfg.Data)
	}

	Emit(sys.events, SceneTransitionOut, Transition{Scene: target, Duration: duration})
	p.transitionStep = On(sys.events, SceneUpdate, p, p.step)
	return true
}

func (p *SceneProxy) checkValidTransition(target *Scene) bool {
	if target == nil || target.sys.IsActive() || target.sys.IsTransitioning() ||
		target == p.scene || p.systems.IsTransitioning() {
		return false
	}
	return true
}

func (p *SceneProxy) step(st Step) {
	p.elapsed += st.Delta
	progress := 1.0
	if p.duration > 0 {
		progress = clamp01(p.elapsed / p.duration)
	}
	if p.onUpdate != nil {
		v := progress
		if p.ease != nil {
			v = float64(p.ease(float32(progress), 0, 1, 1))
		}
		p.onUpdate(v)
	}
	if p.elapsed >= p.duration {
		p.transitionComplete()
	}
}

func (p *SceneProxy) transitionComplete() {
	target := p.target
	p.transitionStep.Remove()
	p.transitionStep = Listener{}

	if target != nil && target.sys != nil {
		ts := target.sys.settings
		Emit(target.sys.events, SceneTransitionComplete, Transition{Scene: p.scene, Duration: p.duration})
		ts.IsTransition = false
		ts.TransitionFrom = nil
		ts.TransitionAllowInput = true
	}

	p.duration = 0
	p.target = nil
	p.onUpdate = nil
	p.ease = nil
	p.systems.settings.TransitionAllowInput = true

	switch {
	case p.willRemove:
		p.manager.Remove(p.key)
	case p.willSleep:
		p.systems.Sleep(nil)
	default:
		p.manager.Stop(p.key, nil)
	}
	p.willSleep = false
	p.willRemove = false
}

// Add adds a scene to the manager.
func (p *SceneProxy) Add(key string, sc Sceneable, autoStart bool, data any) (*Scene, error) {
	return p.manager.Add(key, sc, autoStart, data)
}

// Remove removes the scene under key, or this scene when key is empty.
func (p *SceneProxy) Remove(key string) *SceneProxy {
	p.manager.Remove(p.keyOr(key))
	return p
}

// Pause pauses the scene under key, or this scene when key is empty.
func (p *SceneProxy) Pause(key string, data any) *SceneProxy {
	p.manager.Pause(p.keyOr(key), data)
	return p
}

// Resume resumes the scene under key, or this scene when key is empty.
func (p *SceneProxy) Resume(key string, data any) *SceneProxy {
	p.manager.Resume(p.keyOr(key), data)
	return p
}

// Sleep puts the scene under key, or this scene, to sleep.
func (p *SceneProxy) Sleep(key string, data any) *SceneProxy {
	p.manager.Sleep(p.keyOr(key), data)
	return p
}

// Wake wakes the scene under key, or this scene.
func (p *SceneProxy) Wake(key string, data any) *SceneProxy {
	p.manager.Wake(p.keyOr(key), data)
	return p
}

// Stop shuts down the scene under key, or this scene, on the next update.
func (p *SceneProxy) Stop(key string, data any) *SceneProxy {
	p.manager.queueOp(opStop, p.keyOr(key), "", data)
	return p
}

// SetActive pauses or resumes the scene under key, or this scene.
func (p *SceneProxy) SetActive(v bool, key string, data any) *SceneProxy {
	if s := p.manager.GetScene(p.keyOr(key)); s != nil {
		s.sys.SetActive(v, data)
	}
	return p
}

// SetVisible shows or hides the scene under key, or this scene.
func (p *SceneProxy) SetVisible(v bool, key string) *SceneProxy {
	if s := p.manager.GetScene(p.keyOr(key)); s != nil {
		s.sys.SetVisible(v)
	}
	return p
}

func (p *SceneProxy) IsSleeping(key string) bool { return p.manager.IsSleeping(p.keyOr(key)) }
func (p *SceneProxy) IsActive(key string) bool   { return p.manager.IsActive(p.keyOr(key)) }
func (p *SceneProxy) IsPaused(key string) bool   { return p.manager.IsPaused(p.keyOr(key)) }
func (p *SceneProxy) IsVisible(key string) bool  { return p.manager.IsVisible(p.keyOr(key)) }

// SwapPosition swaps keyA with keyB, or with this scene when keyB is empty.
func (p *SceneProxy) SwapPosition(keyA, keyB string) *SceneProxy {
	keyB = p.keyOr(keyB)
	if keyA != keyB {
		p.manager.SwapPosition(keyA, keyB)
	}
	return p
}

// MoveAbove moves the scene under keyB, or this scene, above keyA.
func (p *SceneProxy) MoveAbove(keyA, keyB string) *SceneProxy {
	keyB = p.keyOr(keyB)
	if keyA != keyB {
		p.manager.MoveAbove(keyA, keyB)
	}
	return p
}

// MoveBelow moves the scene under keyB, or this scene, below keyA.
func (p *SceneProxy) MoveBelow(keyA, keyB string) *SceneProxy {
	keyB = p.keyOr(keyB)
	if keyA != keyB {
		p.manager.MoveBelow(keyA, keyB)
	}
	return p
}

func (p *SceneProxy) BringToTop(key string) *SceneProxy {
	p.manager.BringToTop(p.keyOr(key))
	return p
}

func (p *SceneProxy) SendToBack(key string) *SceneProxy {
	p.manager.SendToBack(p.keyOr(key))
	return p
}

func (p *SceneProxy) MoveUp(key string) *SceneProxy {
	p.manager.MoveUp(p.keyOr(key))
	return p
}

func (p *SceneProxy) MoveDown(key string) *SceneProxy {
	p.manager.MoveDown(p.keyOr(key))
	return p
}

// Get returns the scene under key.
func (p *SceneProxy) Get(key string) *Scene { return p.manager.GetScene(key) }

// GetStatus returns the status of the scene under key, or this scene.
func (p *SceneProxy) GetStatus(key string) SceneStatus {
	if s := p.manager.GetScene(p.keyOr(key)); s != nil {
		return s.sys.GetStatus()
	}
	return StatusPending
}

// GetIndex returns the stack index of the scene under key, or this scene.
func (p *SceneProxy) GetIndex(key string) int { return p.manager.GetIndex(p.keyOr(key)) }

func (p *SceneProxy) shutdown() {
	events := p.systems.events
	events.Off(SceneShutdown.Name, p)
	p.transitionStep.Remove()
	p.transitionStep = Listener{}
	p.target = nil
	p.duration = 0
}

// Destroy releases the proxy.
func (p *SceneProxy) Destroy() {
	if p.systems == nil {
		return
	}
	p.shutdown()
	p.systems.events.RemoveOwner(p)
	p.manager = nil
	p.ScenePluginBase.Destroy()
}
