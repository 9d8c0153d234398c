package aspen

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/time/rate"
)

// Game owns the global systems, the plugin manager and the scene manager,
// and drives them from a TimeStep. It implements ebiten.Game.
type Game struct {
	config GameConfig
	events *Emitter

	plugins  *PluginManager
	registry *DataManager
	cache    *CacheManager
	input    *InputManager
	scene    *SceneManager
	loop     *TimeStep

	isBooted       bool
	isRunning      bool
	isPaused       bool
	pendingDestroy bool
	noReturn       bool
	hasFocus       bool
	destroyed      bool

	wallStart time.Time
	stats     debugStats
}

// NewGame creates a game from config. Zero numeric fields take their
// defaults; start from DefaultGameConfig for the boolean defaults.
func NewGame(config GameConfig) *Game {
	config.normalize()
	g := &Game{
		config:   config,
		events:   NewEmitter(),
		hasFocus: true,
	}
	g.registry = NewDataManager(g, NewEmitter())
	g.cache = newCacheManager(g)
	g.plugins = newPluginManager(g)
	g.input = newInputManager(g, config.InputSource)
	g.scene = newSceneManager(g, config.Scenes)
	g.loop = newTimeStep(g, config.FPS)
	return g
}

// Boot emits BOOT and READY. Scenes added before Boot are created and the
// first one starts. Boot runs once; Run and RunHeadless call it.
func (g *Game) Boot() {
	if g.isBooted {
		return
	}
	globalDebug = g.config.Debug
	g.isBooted = true
	Emit(g.events, GameBoot, g)
	Emit(g.events, GameReady, g)
	g.isRunning = true
	if g.config.Debug {
		logf("booted %q %dx%d", g.config.Title, g.config.Width, g.config.Height)
	}
}

// Start boots the game and starts the loop at the timestamp now (ms).
// Tick the loop with Loop().Tick.
func (g *Game) Start(now float64) {
	g.Boot()
	g.loop.Start(now, g.Step)
}

// Step runs one game update: PRE_STEP, input, STEP, scene updates, POST_STEP.
// t is the loop time and delta the smoothed frame delta, both in ms.
func (g *Game) Step(t, delta float64) {
	if g.pendingDestroy {
		g.runDestroy()
		return
	}
	if g.isPaused || g.destroyed {
		return
	}
	var t0 time.Time
	if g.config.Debug {
		t0 = time.Now()
	}

	st := Step{Time: t, Delta: delta}
	Emit(g.events, GamePreStep, st)
	g.input.update(t)
	Emit(g.events, GameStep, st)
	g.scene.Update(t, delta)
	Emit(g.events, GamePostStep, st)

	if g.config.Debug {
		g.stats.stepTime = time.Since(t0)
	}
}

// Render draws every visible scene to screen.
func (g *Game) Render(screen *ebiten.Image) {
	if g.destroyed {
		return
	}
	var t0 time.Time
	if g.config.Debug {
		t0 = time.Now()
	}

	if g.config.BackgroundColor.A > 0 {
		screen.Fill(g.config.BackgroundColor.RGBA())
	}
	Emit(g.events, GamePreRender, screen)
	g.scene.Render(screen)
	Emit(g.events, GamePostRender, screen)

	if g.config.Debug {
		g.stats.renderTime = time.Since(t0)
		g.stats.frame = g.loop.Frame()
		g.stats.scenes = len(g.scene.GetScenes(true, false))
		g.debugLog(g.stats)
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if !g.isBooted {
		g.wallStart = time.Now()
		g.Start(0)
	}
	if focused := ebiten.IsFocused(); focused != g.hasFocus {
		if focused {
			g.OnFocus()
		} else {
			g.OnBlur()
		}
	}
	g.loop.Tick(float64(time.Since(g.wallStart).Microseconds()) / 1000)
	if g.destroyed {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.Render(screen)
}

// Layout implements ebiten.Game. The logical screen is always the
// configured size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.config.Width, g.config.Height
}

// Run opens a window and runs the game until it is destroyed or the window
// closes.
func (g *Game) Run() error {
	ebiten.SetWindowTitle(g.config.Title)
	ebiten.SetWindowSize(g.config.Width, g.config.Height)
	ebiten.SetTPS(int(g.config.FPS.Target))
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}

// RunHeadless steps the game without a window at the configured frame
// limit until ctx is done, the game is destroyed, or frames updates have run.
// frames <= 0 runs without a frame cap. Scenes are updated, not rendered.
func (g *Game) RunHeadless(ctx context.Context, frames int) error {
	limit := g.config.FPS.Limit
	if limit <= 0 {
		limit = g.config.FPS.Target
	}
	limiter := rate.NewLimiter(rate.Limit(limit), 1)

	start := time.Now()
	if !g.loop.started {
		g.Start(0)
	}
	for n := 0; frames <= 0 || n < frames; n++ {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("wait frame: %w", err)
		}
		g.loop.Tick(float64(time.Since(start).Microseconds()) / 1000)
		if g.destroyed {
			return ErrGameDestroyed
		}
	}
	return nil
}

// Pause stops game steps. Rendering continues.
func (g *Game) Pause() {
	if g.isPaused {
		return
	}
	g.isPaused = true
	Emit(g.events, GamePause, g)
}

// Resume restarts game steps after Pause.
func (g *Game) Resume() {
	if !g.isPaused {
		return
	}
	g.isPaused = false
	g.loop.ResetDelta(g.loop.Now())
	Emit(g.events, GameResume, g)
}

// OnBlur records that the game window lost focus.
func (g *Game) OnBlur() {
	g.hasFocus = false
	g.loop.blur()
	Emit(g.events, GameBlur, g)
}

// OnFocus records that the game window gained focus.
func (g *Game) OnFocus() {
	g.hasFocus = true
	g.loop.focus()
	Emit(g.events, GameFocus, g)
}

// Destroy flags the game for destruction at the start of the next step.
// noReturn also clears the registered scene plugin classes, so no new game
// can be created from them.
func (g *Game) Destroy(noReturn bool) {
	g.pendingDestroy = true
	g.noReturn = noReturn
}

func (g *Game) runDestroy() {
	g.pendingDestroy = false
	g.scene.Destroy()
	Emit(g.events, GameDestroy, g)
	g.events.RemoveAllListeners()
	g.input.destroy()
	g.loop.Stop()
	g.isRunning = false
	g.destroyed = true
}

// global returns the game-level system stored under a Systems key.
func (g *Game) global(key string) any {
	switch key {
	case "game":
		return g
	case "cache":
		return g.cache
	case "plugins":
		return g.plugins
	case "registry":
		return g.registry
	}
	return nil
}

// SetDebugMode toggles per-frame timing logs and debug checks.
func (g *Game) SetDebugMode(on bool) {
	g.config.Debug = on
	globalDebug = on
}

func (g *Game) Config() *GameConfig         { return &g.config }
func (g *Game) Events() *Emitter            { return g.events }
func (g *Game) Plugins() *PluginManager     { return g.plugins }
func (g *Game) Registry() *DataManager      { return g.registry }
func (g *Game) Cache() *CacheManager        { return g.cache }
func (g *Game) InputManager() *InputManager { return g.input }
func (g *Game) Scenes() *SceneManager       { return g.scene }
func (g *Game) Loop() *TimeStep             { return g.loop }

func (g *Game) IsBooted() bool    { return g.isBooted }
func (g *Game) IsRunning() bool   { return g.isRunning }
func (g *Game) IsPaused() bool    { return g.isPaused }
func (g *Game) HasFocus() bool    { return g.hasFocus }
func (g *Game) IsDestroyed() bool { return g.destroyed }
