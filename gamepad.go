package aspen

import "math"

// Standard layout button indices.
const (
	PadA = iota
	PadB
	PadX
	PadY
	PadL1
	PadR1
	PadL2
	PadR2
	PadSelect
	PadStart
	PadLeftStick
	PadRightStick
	PadUp
	PadDown
	PadLeft
	PadRight
	PadHome
)

// ButtonEvent is emitted when a gamepad button crosses its threshold.
type ButtonEvent struct {
	Pad    *Gamepad
	Button *GamepadButton
	Value  float64
}

// Gamepad button events, emitted on the pad's emitter and on the
// GamepadPlugin's emitter.
var (
	GamepadButtonDown = NewEvent[ButtonEvent]("down")
	GamepadButtonUp   = NewEvent[ButtonEvent]("up")
)

// GamepadButton is one button of a Gamepad.
type GamepadButton struct {
	pad   *Gamepad
	Index int
	// Value is the analog value, 0 to 1.
	Value float64
	// Threshold is the value at which the button counts as pressed.
	Threshold float64
	Pressed   bool
}

func (b *GamepadButton) update(value float64) {
	b.Value = value
	ev := ButtonEvent{Pad: b.pad, Button: b, Value: value}
	if value >= b.Threshold {
		if !b.Pressed {
			b.Pressed = true
			Emit(b.pad.events, GamepadButtonDown, ev)
			if b.pad.plugin != nil {
				Emit(b.pad.plugin.events, GamepadButtonDown, ev)
			}
		}
		return
	}
	if b.Pressed {
		b.Pressed = false
		Emit(b.pad.events, GamepadButtonUp, ev)
		if b.pad.plugin != nil {
			Emit(b.pad.plugin.events, GamepadButtonUp, ev)
		}
	}
}

// GamepadAxis is one analog axis of a Gamepad.
type GamepadAxis struct {
	Index int
	Value float64
	// Threshold is the dead zone: smaller magnitudes read as 0.
	Threshold float64
}

// GetValue returns the axis value with the dead zone applied.
func (a *GamepadAxis) GetValue() float64 {
	if math.Abs(a.Value) < a.Threshold {
		return 0
	}
	return a.Value
}

// Gamepad is one connected controller.
type Gamepad struct {
	plugin *GamepadPlugin
	events *Emitter

	ID        int
	Index     int
	Name      string
	Standard  bool
	Connected bool

	Buttons []*GamepadButton
	Axes    []*GamepadAxis

	LeftStick  Vec2
	RightStick Vec2
}

func newGamepad(plugin *GamepadPlugin, index int, snap GamepadSnapshot) *Gamepad {
	pad := &Gamepad{
		plugin:    plugin,
		events:    NewEmitter(),
		ID:        snap.ID,
		Index:     index,
		Name:      snap.Name,
		Standard:  snap.Standard,
		Connected: true,
	}
	for i := range snap.Buttons {
		pad.Buttons = append(pad.Buttons, &GamepadButton{pad: pad, Index: i, Threshold: 1})
	}
	for i := range snap.Axes {
		pad.Axes = append(pad.Axes, &GamepadAxis{Index: i, Threshold: 0.1})
	}
	return pad
}

// Events returns the pad's emitter.
func (p *Gamepad) Events() *Emitter { return p.events }

func (p *Gamepad) update(snap GamepadSnapshot) {
	for i, v := range snap.Buttons {
		if i < len(p.Buttons) {
			p.Buttons[i].update(v)
		}
	}
	for i, v := range snap.Axes {
		if i < len(p.Axes) {
			p.Axes[i].Value = v
		}
	}
	if len(p.Axes) >= 2 {
		p.LeftStick = Vec2{p.Axes[0].GetValue(), p.Axes[1].GetValue()}
	}
	if len(p.Axes) >= 4 {
		p.RightStick = Vec2{p.Axes[2].GetValue(), p.Axes[3].GetValue()}
	}
}

// IsButtonDown reports whether button index is pressed.
func (p *Gamepad) IsButtonDown(index int) bool {
	if index < 0 || index >= len(p.Buttons) {
		return false
	}
	return p.Buttons[index].Pressed
}

// ButtonValue returns the analog value of button index.
func (p *Gamepad) ButtonValue(index int) float64 {
	if index < 0 || index >= len(p.Buttons) {
		return 0
	}
	return p.Buttons[index].Value
}

// AxisValue returns the dead-zoned value of axis index.
func (p *Gamepad) AxisValue(index int) float64 {
	if index < 0 || index >= len(p.Axes) {
		return 0
	}
	return p.Axes[index].GetValue()
}

// AxisTotal returns the number of axes.
func (p *Gamepad) AxisTotal() int { return len(p.Axes) }

// SetAxisThreshold sets the dead zone of every axis.
func (p *Gamepad) SetAxisThreshold(v float64) {
	for _, a := range p.Axes {
		a.Threshold = v
	}
}

func (p *Gamepad) A() bool                { return p.IsButtonDown(PadA) }
func (p *Gamepad) B() bool                { return p.IsButtonDown(PadB) }
func (p *Gamepad) X() bool                { return p.IsButtonDown(PadX) }
func (p *Gamepad) Y() bool                { return p.IsButtonDown(PadY) }
func (p *Gamepad) L1() bool               { return p.IsButtonDown(PadL1) }
func (p *Gamepad) R1() bool               { return p.IsButtonDown(PadR1) }
func (p *Gamepad) L2() float64            { return p.ButtonValue(PadL2) }
func (p *Gamepad) R2() float64            { return p.ButtonValue(PadR2) }
func (p *Gamepad) Up() bool               { return p.IsButtonDown(PadUp) }
func (p *Gamepad) Down() bool             { return p.IsButtonDown(PadDown) }
func (p *Gamepad) Left() bool             { return p.IsButtonDown(PadLeft) }
func (p *Gamepad) Right() bool            { return p.IsButtonDown(PadRight) }
func (p *Gamepad) LeftStickButton() bool  { return p.IsButtonDown(PadLeftStick) }
func (p *Gamepad) RightStickButton() bool { return p.IsButtonDown(PadRightStick) }

func (p *Gamepad) destroy() {
	p.events.RemoveAllListeners()
	p.plugin = nil
	p.Connected = false
}
