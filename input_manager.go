package aspen

// Input manager events, emitted on InputManager.Events(). The payload is the
// game loop time in ms.
var (
	// ManagerProcess fires after each poll. Keyboard plugins consume the
	// key queue on it.
	ManagerProcess = NewEvent[float64]("process")
	InputGameOver  = NewEvent[float64]("gameover")
	InputGameOut   = NewEvent[float64]("gameout")
)

// InputManager is the game-wide input system. It polls a RawInput once per
// step and drives every scene's InputPlugin from the top of the scene stack
// down.
type InputManager struct {
	game   *Game
	source RawInput
	events *Emitter

	// Enabled gates all input processing.
	Enabled bool
	// TopOnly stops pointer processing at the first scene with an
	// interactive node under a pointer.
	TopOnly bool

	time       float64
	keys       []KeyEvent
	modifiers  KeyModifiers
	pointers   [maxPointers]PointerSnapshot
	wheelX     float64
	wheelY     float64
	gamepads   []GamepadSnapshot
	overWindow bool
}

func newInputManager(game *Game, src RawInput) *InputManager {
	if src == nil {
		src = NewEbitenInput()
	}
	return &InputManager{
		game:    game,
		source:  src,
		events:  NewEmitter(),
		Enabled: true,
		TopOnly: game.config.Input.TopOnly,
	}
}

// Events returns the manager's emitter.
func (im *InputManager) Events() *Emitter { return im.events }

// Source returns the polled RawInput.
func (im *InputManager) Source() RawInput { return im.source }

// SetSource replaces the polled RawInput.
func (im *InputManager) SetSource(src RawInput) { im.source = src }

// Time returns the loop time of the last poll.
func (im *InputManager) Time() float64 { return im.time }

// KeyEvents returns the key transitions read this step.
func (im *InputManager) KeyEvents() []KeyEvent { return im.keys }

// Modifiers returns the modifier keys held this step.
func (im *InputManager) Modifiers() KeyModifiers { return im.modifiers }

// Pointer returns the screen-space state of pointer id (0 = mouse).
func (im *InputManager) Pointer(id int) PointerSnapshot {
	if id < 0 || id >= maxPointers {
		return PointerSnapshot{}
	}
	return im.pointers[id]
}

// Wheel returns the wheel movement read this step.
func (im *InputManager) Wheel() (dx, dy float64) { return im.wheelX, im.wheelY }

// Gamepads returns the gamepads reported this step.
func (im *InputManager) Gamepads() []GamepadSnapshot { return im.gamepads }

// update polls the source and runs scene input for step time t.
func (im *InputManager) update(t float64) {
	if !im.Enabled || im.source == nil {
		return
	}
	cfg := im.game.config.Input
	snap := im.source.Poll()
	im.time = t

	im.keys = im.keys[:0]
	if cfg.Keyboard {
		for _, k := range snap.Keys {
			k.Time = t
			im.keys = append(im.keys, k)
		}
	}
	im.modifiers = snap.Modifiers
	im.pointers = snap.Pointers
	if !cfg.Mouse {
		im.pointers[0] = PointerSnapshot{}
	}
	if !cfg.Touch {
		for i := 1; i < maxPointers; i++ {
			im.pointers[i] = PointerSnapshot{}
		}
	}
	im.wheelX, im.wheelY = snap.WheelX, snap.WheelY
	im.gamepads = im.gamepads[:0]
	if cfg.Gamepad {
		im.gamepads = append(im.gamepads, snap.Gamepads...)
	}

	im.checkWindow(t)
	Emit(im.events, ManagerProcess, t)

	for _, scene := range im.game.scene.GetScenes(true, true) {
		ip := scene.sys.Input()
		if ip == nil {
			continue
		}
		ip.managerUpdate(t)
		if !ip.IsActive() {
			continue
		}
		if ip.processPointers(&im.pointers, im.modifiers) && im.TopOnly {
			break
		}
	}
}

// checkWindow emits GAME_OVER and GAME_OUT as the mouse enters and leaves
// the game area.
func (im *InputManager) checkWindow(t float64) {
	p := im.pointers[0]
	if !p.Active {
		return
	}
	w, h := float64(im.game.config.Width), float64(im.game.config.Height)
	over := p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h
	if over == im.overWindow {
		return
	}
	im.overWindow = over
	if over {
		Emit(im.events, InputGameOver, t)
	} else {
		Emit(im.events, InputGameOut, t)
	}
}

// OverWindow reports whether the mouse is inside the game area.
func (im *InputManager) OverWindow() bool { return im.overWindow }

func (im *InputManager) destroy() {
	im.events.RemoveAllListeners()
	im.Enabled = false
	im.source = nil
	im.keys = nil
	im.gamepads = nil
}
