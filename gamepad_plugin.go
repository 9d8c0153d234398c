package aspen

import "slices"

// Gamepad connection events, emitted on GamepadPlugin.Events().
var (
	GamepadConnected    = NewEvent[*Gamepad]("connected")
	GamepadDisconnected = NewEvent[*Gamepad]("disconnected")
)

// GamepadPlugin is the gamepad input sub-plugin, reached through
// InputPlugin.Gamepad. Pads are refreshed from the input manager on every
// input update.
type GamepadPlugin struct {
	input  *InputPlugin
	events *Emitter

	Enabled bool

	pads []*Gamepad
}

func init() {
	DefaultInputPluginCache.Register("GamepadPlugin", func(input *InputPlugin) InputSubPlugin {
		return newGamepadPlugin(input)
	}, "gamepad", "gamepad", "inputGamepad")
}

func newGamepadPlugin(input *InputPlugin) *GamepadPlugin {
	gp := &GamepadPlugin{input: input, events: NewEmitter(), Enabled: true}
	Once(input.pluginEvents, InputPluginBoot, gp, func(*InputPlugin) {
		Once(input.pluginEvents, InputPluginDestroy, gp, func(*InputPlugin) { gp.destroy() })
	})
	On(input.pluginEvents, InputPluginStart, gp, func(*InputPlugin) { gp.start() })
	return gp
}

func (gp *GamepadPlugin) start() {
	On(gp.input.pluginEvents, InputPluginUpdate, gp, func(float64) { gp.update() })
	Once(gp.input.pluginEvents, InputPluginShutdown, gp, func(*InputPlugin) { gp.shutdown() })
}

// Events returns the plugin emitter.
func (gp *GamepadPlugin) Events() *Emitter { return gp.events }

// IsActive reports whether pads are refreshed for the scene.
func (gp *GamepadPlugin) IsActive() bool {
	return gp.Enabled && gp.input != nil && gp.input.IsActive()
}

func (gp *GamepadPlugin) update() {
	if !gp.IsActive() || gp.input.manager == nil {
		return
	}
	snaps := gp.input.manager.gamepads
	for _, snap := range snaps {
		pad := gp.byID(snap.ID)
		if pad == nil || !pad.Connected {
			if pad == nil {
				pad = newGamepad(gp, gp.freeIndex(), snap)
				gp.pads = append(gp.pads, pad)
			} else {
				pad.Connected = true
			}
			Emit(gp.events, GamepadConnected, pad)
		}
		pad.update(snap)
	}
	for _, pad := range gp.pads {
		if !pad.Connected {
			continue
		}
		if !slices.ContainsFunc(snaps, func(s GamepadSnapshot) bool { return s.ID == pad.ID }) {
			pad.Connected = false
			Emit(gp.events, GamepadDisconnected, pad)
		}
	}
}

func (gp *GamepadPlugin) byID(id int) *Gamepad {
	for _, p := range gp.pads {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (gp *GamepadPlugin) freeIndex() int {
	return len(gp.pads)
}

// GetAll returns the connected pads.
func (gp *GamepadPlugin) GetAll() []*Gamepad {
	out := make([]*Gamepad, 0, len(gp.pads))
	for _, p := range gp.pads {
		if p.Connected {
			out = append(out, p)
		}
	}
	return out
}

// GetPad returns the pad at index in connection order, or nil.
func (gp *GamepadPlugin) GetPad(index int) *Gamepad {
	for _, p := range gp.pads {
		if p.Index == index && p.Connected {
			return p
		}
	}
	return nil
}

// Total returns the number of connected pads.
func (gp *GamepadPlugin) Total() int { return len(gp.GetAll()) }

func (gp *GamepadPlugin) Pad1() *Gamepad { return gp.GetPad(0) }
func (gp *GamepadPlugin) Pad2() *Gamepad { return gp.GetPad(1) }
func (gp *GamepadPlugin) Pad3() *Gamepad { return gp.GetPad(2) }
func (gp *GamepadPlugin) Pad4() *Gamepad { return gp.GetPad(3) }

func (gp *GamepadPlugin) shutdown() {
	gp.input.pluginEvents.Off(InputPluginUpdate.Name, gp)
}

func (gp *GamepadPlugin) destroy() {
	gp.shutdown()
	for _, p := range gp.pads {
		p.destroy()
	}
	gp.pads = nil
	gp.events.RemoveAllListeners()
	gp.input.pluginEvents.RemoveOwner(gp)
}
