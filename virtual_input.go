package aspen

import (
	"slices"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// VirtualInput is a scripted RawInput. Queued pointer events and key
// batches are consumed one per Poll, so a press followed by a release takes
// two steps. Coordinates are screen pixels, converted to world space by
// each scene's main camera exactly like real input.
//
// It is safe to queue input from another goroutine while the game runs.
type VirtualInput struct {
	mu        sync.Mutex
	pointer   PointerSnapshot
	pointerQ  []PointerSnapshot
	keyQ      [][]KeyEvent
	held      map[ebiten.Key]bool
	modifiers KeyModifiers
	wheelX    float64
	wheelY    float64
	pads      []GamepadSnapshot
}

// NewVirtualInput returns an idle virtual input with the mouse at (0, 0).
func NewVirtualInput() *VirtualInput {
	return &VirtualInput{
		pointer: PointerSnapshot{Active: true},
		held:    make(map[ebiten.Key]bool),
	}
}

// Poll consumes at most one pointer event and one key batch.
func (v *VirtualInput) Poll() InputSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	var snap InputSnapshot
	if len(v.pointerQ) > 0 {
		v.pointer = v.pointerQ[0]
		v.pointerQ = slices.Delete(v.pointerQ, 0, 1)
	}
	snap.Pointers[0] = v.pointer
	if len(v.keyQ) > 0 {
		snap.Keys = v.keyQ[0]
		v.keyQ = slices.Delete(v.keyQ, 0, 1)
	}
	snap.Modifiers = v.modifiers
	snap.WheelX, snap.WheelY = v.wheelX, v.wheelY
	v.wheelX, v.wheelY = 0, 0
	for _, p := range v.pads {
		p.Buttons = slices.Clone(p.Buttons)
		p.Axes = slices.Clone(p.Axes)
		snap.Gamepads = append(snap.Gamepads, p)
	}
	return snap
}

// Pending reports whether queued pointer or key events remain.
func (v *VirtualInput) Pending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.pointerQ) > 0 || len(v.keyQ) > 0
}

func (v *VirtualInput) queuePointer(x, y float64, down bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pointerQ = append(v.pointerQ, PointerSnapshot{
		Active: true, X: x, Y: y, Down: down, Button: MouseButtonLeft,
	})
}

// Press queues a left-button press at (x, y).
func (v *VirtualInput) Press(x, y float64) { v.queuePointer(x, y, true) }

// Move queues a move to (x, y) with the button held. Use it between Press
// and Release to drag.
func (v *VirtualInput) Move(x, y float64) { v.queuePointer(x, y, true) }

// Hover queues a move to (x, y) with no button held.
func (v *VirtualInput) Hover(x, y float64) { v.queuePointer(x, y, false) }

// Release queues a release at (x, y).
func (v *VirtualInput) Release(x, y float64) { v.queuePointer(x, y, false) }

// Click queues a press and a release at (x, y). It takes two steps.
func (v *VirtualInput) Click(x, y float64) {
	v.Press(x, y)
	v.Release(x, y)
}

// Drag queues a press at the start point, frames-2 evenly spaced moves and
// a release at the end point. frames is at least 2.
func (v *VirtualInput) Drag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	v.Press(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		v.Move(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	v.Release(toX, toY)
}

// KeyDown queues a key press. Pressing a held key queues a repeat.
func (v *VirtualInput) KeyDown(keys ...ebiten.Key) {
	v.mu.Lock()
	defer v.mu.Unlock()
	batch := make([]KeyEvent, 0, len(keys))
	for _, k := range keys {
		batch = append(batch, KeyEvent{Key: k, Down: true, Repeat: v.held[k]})
		v.held[k] = true
	}
	v.keyQ = append(v.keyQ, batch)
}

// KeyUp queues a key release.
func (v *VirtualInput) KeyUp(keys ...ebiten.Key) {
	v.mu.Lock()
	defer v.mu.Unlock()
	batch := make([]KeyEvent, 0, len(keys))
	for _, k := range keys {
		batch = append(batch, KeyEvent{Key: k, Down: false})
		delete(v.held, k)
	}
	v.keyQ = append(v.keyQ, batch)
}

// KeyPress queues a press and a release of k over two steps.
func (v *VirtualInput) KeyPress(k ebiten.Key) {
	v.KeyDown(k)
	v.KeyUp(k)
}

// Idle queues n steps with no pointer change and no keys.
func (v *VirtualInput) Idle(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for range n {
		v.keyQ = append(v.keyQ, nil)
	}
}

// SetModifiers sets the modifier state reported from the next Poll.
func (v *VirtualInput) SetModifiers(m KeyModifiers) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.modifiers = m
}

// Wheel reports a wheel movement on the next Poll.
func (v *VirtualInput) Wheel(dx, dy float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.wheelX += dx
	v.wheelY += dy
}

// SetGamepad connects or updates a gamepad.
func (v *VirtualInput) SetGamepad(gp GamepadSnapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.pads {
		if v.pads[i].ID == gp.ID {
			v.pads[i] = gp
			return
		}
	}
	v.pads = append(v.pads, gp)
}

// RemoveGamepad disconnects the gamepad with id.
func (v *VirtualInput) RemoveGamepad(id int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pads = slices.DeleteFunc(v.pads, func(p GamepadSnapshot) bool { return p.ID == id })
}
