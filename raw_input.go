package aspen

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// KeyEvent is one keyboard transition read from a RawInput. Time is filled
// in by the InputManager with the game loop time of the step that read it.
type KeyEvent struct {
	Key    ebiten.Key
	Down   bool
	Repeat bool
	Time   float64
}

// PointerSnapshot is the state of one pointer slot in screen pixels.
type PointerSnapshot struct {
	// Active is false for unused touch slots.
	Active bool
	X, Y   float64
	Down   bool
	Button MouseButton
}

// GamepadSnapshot is the state of one connected gamepad. Buttons and axes
// use the W3C standard layout when Standard is true.
type GamepadSnapshot struct {
	ID       int
	Name     string
	Standard bool
	Buttons  []float64
	Axes     []float64
}

// InputSnapshot is everything a RawInput reports for one step.
type InputSnapshot struct {
	Keys      []KeyEvent
	Modifiers KeyModifiers
	Pointers  [maxPointers]PointerSnapshot
	WheelX    float64
	WheelY    float64
	Gamepads  []GamepadSnapshot
}

// RawInput is the source the InputManager polls once per step.
type RawInput interface {
	Poll() InputSnapshot
}

// EbitenInput reads keyboard, mouse, touch and gamepads from Ebitengine.
type EbitenInput struct {
	keyBuf    []ebiten.Key
	touchIDs  []ebiten.TouchID
	touchMap  [maxPointers]ebiten.TouchID
	touchUsed [maxPointers]bool
	touchLast [maxPointers]PointerSnapshot
	padIDs    []ebiten.GamepadID
}

// NewEbitenInput returns the default RawInput.
func NewEbitenInput() *EbitenInput {
	return &EbitenInput{}
}

// Poll reads the current Ebitengine input state.
func (in *EbitenInput) Poll() InputSnapshot {
	var snap InputSnapshot

	in.keyBuf = inpututil.AppendJustPressedKeys(in.keyBuf[:0])
	for _, k := range in.keyBuf {
		snap.Keys = append(snap.Keys, KeyEvent{Key: k, Down: true})
	}
	in.keyBuf = inpututil.AppendJustReleasedKeys(in.keyBuf[:0])
	for _, k := range in.keyBuf {
		snap.Keys = append(snap.Keys, KeyEvent{Key: k, Down: false})
	}
	snap.Modifiers = readModifiers()

	mx, my := ebiten.CursorPosition()
	mouse := PointerSnapshot{Active: true, X: float64(mx), Y: float64(my)}
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		mouse.Down, mouse.Button = true, MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		mouse.Down, mouse.Button = true, MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		mouse.Down, mouse.Button = true, MouseButtonMiddle
	}
	snap.Pointers[0] = mouse
	in.pollTouches(&snap)
	snap.WheelX, snap.WheelY = ebiten.Wheel()

	in.padIDs = ebiten.AppendGamepadIDs(in.padIDs[:0])
	for _, id := range in.padIDs {
		snap.Gamepads = append(snap.Gamepads, readGamepad(id))
	}
	return snap
}

func (in *EbitenInput) pollTouches(snap *InputSnapshot) {
	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	var seen [maxPointers]bool
	for _, tid := range in.touchIDs {
		slot := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		seen[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		p := PointerSnapshot{Active: true, X: float64(tx), Y: float64(ty), Down: true, Button: MouseButtonLeft}
		snap.Pointers[slot] = p
		in.touchLast[slot] = p
	}
	// Ended touches report one released frame at their last position.
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && !seen[i] {
			p := in.touchLast[i]
			p.Down = false
			snap.Pointers[i] = p
			in.touchUsed[i] = false
			in.touchMap[i] = 0
		}
	}
}

// touchSlot maps a touch to a pointer slot (1-9), allocating one if needed.
// Returns -1 when every slot is taken.
func (in *EbitenInput) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && in.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !in.touchUsed[i] {
			in.touchUsed[i] = true
			in.touchMap[i] = tid
			return i
		}
	}
	return -1
}

func readGamepad(id ebiten.GamepadID) GamepadSnapshot {
	gp := GamepadSnapshot{ID: int(id), Name: ebiten.GamepadName(id)}
	if ebiten.IsStandardGamepadLayoutAvailable(id) {
		gp.Standard = true
		for b := ebiten.StandardGamepadButton(0); b <= ebiten.StandardGamepadButtonMax; b++ {
			gp.Buttons = append(gp.Buttons, ebiten.StandardGamepadButtonValue(id, b))
		}
		for a := ebiten.StandardGamepadAxis(0); a <= ebiten.StandardGamepadAxisMax; a++ {
			gp.Axes = append(gp.Axes, ebiten.StandardGamepadAxisValue(id, a))
		}
		return gp
	}
	for b := 0; b < ebiten.GamepadButtonCount(id); b++ {
		v := 0.0
		if ebiten.IsGamepadButtonPressed(id, ebiten.GamepadButton(b)) {
			v = 1
		}
		gp.Buttons = append(gp.Buttons, v)
	}
	for a := 0; a < ebiten.GamepadAxisCount(id); a++ {
		gp.Axes = append(gp.Axes, ebiten.GamepadAxisValue(id, ebiten.GamepadAxisType(a)))
	}
	return gp
}

func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}
