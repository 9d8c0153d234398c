package aspen

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Key events, emitted on Key.Events().
var (
	KeyDown = NewEvent[*Key]("down")
	KeyUp   = NewEvent[*Key]("up")
)

// Key tracks the state of one keyboard key for a KeyboardPlugin.
type Key struct {
	plugin *KeyboardPlugin
	events *Emitter

	Code ebiten.Key
	// Enabled keys ignore input while false.
	Enabled bool
	// EmitOnRepeat emits a down event for every repeat while held.
	EmitOnRepeat bool

	IsDown bool
	IsUp   bool
	// TimeDown and TimeUp are loop times in ms.
	TimeDown float64
	TimeUp   float64
	// Duration is how long the key was last held, in ms. It is set on
	// release.
	Duration float64
	// Repeats counts down events since the key was last released.
	Repeats int

	ShiftKey bool
	CtrlKey  bool
	AltKey   bool
	MetaKey  bool

	justDown bool
	justUp   bool
	tick     float64
}

// NewKey creates a key not bound to any plugin.
func NewKey(plugin *KeyboardPlugin, code ebiten.Key) *Key {
	return &Key{
		plugin:  plugin,
		events:  NewEmitter(),
		Code:    code,
		Enabled: true,
		IsUp:    true,
		tick:    -1,
	}
}

// Events returns the key's emitter.
func (k *Key) Events() *Emitter { return k.events }

// Plugin returns the keyboard plugin that owns the key, or nil.
func (k *Key) Plugin() *KeyboardPlugin { return k.plugin }

func (k *Key) readModifiers(mods KeyModifiers) {
	k.ShiftKey = mods&ModShift != 0
	k.CtrlKey = mods&ModCtrl != 0
	k.AltKey = mods&ModAlt != 0
	k.MetaKey = mods&ModMeta != 0
}

func (k *Key) onDown(ev KeyEvent, mods KeyModifiers) {
	if !k.Enabled {
		return
	}
	k.readModifiers(mods)
	k.Repeats++
	if !k.IsDown {
		k.IsDown = true
		k.IsUp = false
		k.TimeDown = ev.Time
		k.Duration = 0
		k.justDown = true
		k.justUp = false
		Emit(k.events, KeyDown, k)
	} else if k.EmitOnRepeat {
		Emit(k.events, KeyDown, k)
	}
}

func (k *Key) onUp(ev KeyEvent, mods KeyModifiers) {
	if !k.Enabled {
		return
	}
	k.readModifiers(mods)
	k.IsDown = false
	k.IsUp = true
	k.TimeUp = ev.Time
	k.Duration = k.TimeUp - k.TimeDown
	k.Repeats = 0
	k.justDown = false
	k.justUp = true
	k.tick = -1
	Emit(k.events, KeyUp, k)
}

// SetEnabled enables or disables the key. Disabling resets it.
func (k *Key) SetEnabled(v bool) *Key {
	k.Enabled = v
	if !v {
		k.Reset()
	}
	return k
}

// Reset returns the key to the released state without emitting events.
func (k *Key) Reset() *Key {
	k.IsDown = false
	k.IsUp = true
	k.TimeDown = 0
	k.TimeUp = 0
	k.Duration = 0
	k.Repeats = 0
	k.ShiftKey, k.CtrlKey, k.AltKey, k.MetaKey = false, false, false, false
	k.justDown = false
	k.justUp = false
	k.tick = -1
	return k
}

// HeldFor returns how long the key has been held, in ms, or 0 if it is up.
func (k *Key) HeldFor() float64 {
	if !k.IsDown || k.plugin == nil {
		return 0
	}
	return k.plugin.time - k.TimeDown
}

// Destroy removes the key's listeners and detaches it from its plugin.
func (k *Key) Destroy() {
	k.events.RemoveAllListeners()
	k.plugin = nil
}

// JustDown reports whether k was pressed since the last call. It returns
// true once per press.
func JustDown(k *Key) bool {
	if k.justDown {
		k.justDown = false
		return true
	}
	return false
}

// JustUp reports whether k was released since the last call. It returns
// true once per release.
func JustUp(k *Key) bool {
	if k.justUp {
		k.justUp = false
		return true
	}
	return false
}

// DownDuration reports whether k is down and was pressed less than
// duration ms ago. A zero duration uses 50ms.
func DownDuration(k *Key, duration float64) bool {
	if duration == 0 {
		duration = 50
	}
	if k.plugin == nil {
		return false
	}
	return k.IsDown && k.plugin.time-k.TimeDown < duration
}

// UpDuration reports whether k is up and was released less than duration
// ms ago. A zero duration uses 50ms.
func UpDuration(k *Key, duration float64) bool {
	if duration == 0 {
		duration = 50
	}
	if k.plugin == nil {
		return false
	}
	return k.IsUp && k.plugin.time-k.TimeUp < duration
}

// snapFloor rounds v down to a multiple of gap. A zero gap returns v.
func snapFloor(v, gap float64) float64 {
	if gap == 0 {
		return v
	}
	return math.Floor(v/gap) * gap
}
