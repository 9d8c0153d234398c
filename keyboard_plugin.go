package aspen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Keyboard events, emitted on KeyboardPlugin.Events(). Repeats of a held
// key are not emitted.
var (
	KeyboardDown  = NewEvent[KeyEvent]("keydown")
	KeyboardUp    = NewEvent[KeyEvent]("keyup")
	KeyComboMatch = NewEvent[*KeyCombo]("keycombomatch")
)

// KeyDownNamed returns the event emitted when the named key is pressed,
// e.g. KeyDownNamed("SPACE") is "keydown-SPACE".
func KeyDownNamed(name string) Event[KeyEvent] {
	return NewEvent[KeyEvent]("keydown-" + strings.ToUpper(name))
}

// KeyUpNamed returns the event emitted when the named key is released.
func KeyUpNamed(name string) Event[KeyEvent] {
	return NewEvent[KeyEvent]("keyup-" + strings.ToUpper(name))
}

// CursorKeys holds the keys created by CreateCursorKeys.
type CursorKeys struct {
	Up, Down, Left, Right *Key
	Space, Shift          *Key
}

// KeyboardPlugin is the keyboard input sub-plugin, reached through
// InputPlugin.Keyboard. It consumes the input manager's key queue each
// step.
type KeyboardPlugin struct {
	input   *InputPlugin
	manager *InputManager
	events  *Emitter

	Enabled bool

	keys     map[ebiten.Key]*Key
	combos   []*KeyCombo
	captures []ebiten.Key
	time     float64
}

func init() {
	DefaultInputPluginCache.Register("KeyboardPlugin", func(input *InputPlugin) InputSubPlugin {
		return newKeyboardPlugin(input)
	}, "keyboard", "keyboard", "inputKeyboard")
}

func newKeyboardPlugin(input *InputPlugin) *KeyboardPlugin {
	kb := &KeyboardPlugin{
		input:   input,
		events:  NewEmitter(),
		Enabled: true,
		keys:    make(map[ebiten.Key]*Key),
	}
	Once(input.pluginEvents, InputPluginBoot, kb, func(*InputPlugin) { kb.boot() })
	On(input.pluginEvents, InputPluginStart, kb, func(*InputPlugin) { kb.start() })
	return kb
}

func (kb *KeyboardPlugin) boot() {
	kb.manager = kb.input.manager
	if g := kb.input.systems.game; g != nil {
		On(g.events, GameBlur, kb, func(*Game) { kb.ResetKeys() })
	}
	Once(kb.input.pluginEvents, InputPluginDestroy, kb, func(*InputPlugin) { kb.destroy() })
}

func (kb *KeyboardPlugin) start() {
	if kb.manager != nil {
		On(kb.manager.events, ManagerProcess, kb, kb.update)
	}
	ev := kb.input.systems.events
	On(ev, ScenePause, kb, func(SceneData) { kb.ResetKeys() })
	On(ev, SceneSleep, kb, func(SceneData) { kb.ResetKeys() })
	Once(kb.input.pluginEvents, InputPluginShutdown, kb, func(*InputPlugin) { kb.shutdown() })
}

// Events returns the keyboard emitter.
func (kb *KeyboardPlugin) Events() *Emitter { return kb.events }

// IsActive reports whether key events are processed for the scene.
func (kb *KeyboardPlugin) IsActive() bool {
	return kb.Enabled && kb.input != nil && kb.input.IsActive() && kb.input.systems.IsActive()
}

// Time returns the loop time of the last processed step, in ms.
func (kb *KeyboardPlugin) Time() float64 { return kb.time }

func (kb *KeyboardPlugin) update(t float64) {
	kb.time = t
	if !kb.IsActive() || kb.manager == nil {
		return
	}
	mods := kb.manager.modifiers
	for _, ev := range kb.manager.keys {
		key := kb.keys[ev.Key]
		name := KeyName(ev.Key)
		if ev.Down {
			repeat := ev.Repeat
			if key != nil {
				repeat = key.IsDown
				key.onDown(ev, mods)
			}
			if repeat {
				continue
			}
			Emit(kb.events, KeyDownNamed(name), ev)
			Emit(kb.events, KeyboardDown, ev)
			kb.checkCombos(ev)
			continue
		}
		if key != nil {
			key.onUp(ev, mods)
		}
		Emit(kb.events, KeyUpNamed(name), ev)
		Emit(kb.events, KeyboardUp, ev)
	}
}

func (kb *KeyboardPlugin) checkCombos(ev KeyEvent) {
	for _, kc := range slices.Clone(kb.combos) {
		if !kc.onKeyDown(ev) {
			continue
		}
		Emit(kb.events, KeyComboMatch, kc)
		switch {
		case kc.cfg.DeleteOnMatch:
			kc.Destroy()
		case kc.cfg.ResetOnMatch:
			kc.Reset()
		}
	}
}

// AddKey returns the Key tracking code, creating it if needed.
func (kb *KeyboardPlugin) AddKey(code ebiten.Key, enableCapture, emitOnRepeat bool) *Key {
	key, ok := kb.keys[code]
	if !ok {
		key = NewKey(kb, code)
		kb.keys[code] = key
	}
	key.EmitOnRepeat = emitOnRepeat
	if enableCapture {
		kb.AddCapture(code)
	}
	return key
}

// AddKeyByName is AddKey for a key name such as "SPACE".
func (kb *KeyboardPlugin) AddKeyByName(name string) (*Key, error) {
	code, ok := ParseKey(name)
	if !ok {
		return nil, fmt.Errorf("unknown key %q", name)
	}
	return kb.AddKey(code, true, false), nil
}

// AddKeys adds every key in a comma separated list and returns them by
// upper-case name: AddKeys("W,A,S,D").
func (kb *KeyboardPlugin) AddKeys(list string) (map[string]*Key, error) {
	out := make(map[string]*Key)
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key, err := kb.AddKeyByName(name)
		if err != nil {
			return nil, fmt.Errorf("add keys: %w", err)
		}
		out[strings.ToUpper(name)] = key
	}
	return out, nil
}

// CreateCursorKeys adds the arrow keys, space and shift.
func (kb *KeyboardPlugin) CreateCursorKeys() CursorKeys {
	return CursorKeys{
		Up:    kb.AddKey(ebiten.KeyArrowUp, true, false),
		Down:  kb.AddKey(ebiten.KeyArrowDown, true, false),
		Left:  kb.AddKey(ebiten.KeyArrowLeft, true, false),
		Right: kb.AddKey(ebiten.KeyArrowRight, true, false),
		Space: kb.AddKey(ebiten.KeySpace, true, false),
		Shift: kb.AddKey(ebiten.KeyShift, true, false),
	}
}

// Key returns the tracked key for code, or nil.
func (kb *KeyboardPlugin) Key(code ebiten.Key) *Key { return kb.keys[code] }

// RemoveKey stops tracking code. With destroy the Key's listeners are
// removed too.
func (kb *KeyboardPlugin) RemoveKey(code ebiten.Key, destroy, removeCapture bool) {
	key, ok := kb.keys[code]
	if !ok {
		return
	}
	delete(kb.keys, code)
	if destroy {
		key.Destroy()
	} else {
		key.plugin = nil
	}
	if removeCapture {
		kb.RemoveCapture(code)
	}
}

// RemoveAllKeys stops tracking every key.
func (kb *KeyboardPlugin) RemoveAllKeys(destroy, removeCapture bool) {
	for code := range kb.keys {
		kb.RemoveKey(code, destroy, removeCapture)
	}
}

// CreateCombo adds a combo matching keys in order.
func (kb *KeyboardPlugin) CreateCombo(cfg KeyComboConfig, keys ...ebiten.Key) (*KeyCombo, error) {
	kc, err := newKeyCombo(kb, slices.Clone(keys), cfg)
	if err != nil {
		return nil, err
	}
	kb.combos = append(kb.combos, kc)
	return kc, nil
}

// CreateComboString adds a combo from a string, one key per character:
// CreateComboString("IDDQD", cfg).
func (kb *KeyboardPlugin) CreateComboString(seq string, cfg KeyComboConfig) (*KeyCombo, error) {
	codes := make([]ebiten.Key, 0, len(seq))
	for _, r := range seq {
		code, ok := ParseKey(string(r))
		if !ok {
			return nil, fmt.Errorf("combo %q: unknown key %q", seq, r)
		}
		codes = append(codes, code)
	}
	return kb.CreateCombo(cfg, codes...)
}

// Combos returns the active combos.
func (kb *KeyboardPlugin) Combos() []*KeyCombo { return kb.combos }

func (kb *KeyboardPlugin) removeCombo(kc *KeyCombo) {
	kb.combos = slices.DeleteFunc(kb.combos, func(c *KeyCombo) bool { return c == kc })
}

// CheckDown reports whether key is held, at most once per duration ms
// of holding. A zero duration reports once per step.
func (kb *KeyboardPlugin) CheckDown(key *Key, duration float64) bool {
	if !kb.Enabled || key == nil || !key.IsDown {
		return false
	}
	t := snapFloor(kb.time-key.TimeDown, duration)
	if t > key.tick {
		key.tick = t
		return true
	}
	return false
}

// AddCapture marks keys as consumed by the game.
func (kb *KeyboardPlugin) AddCapture(codes ...ebiten.Key) {
	for _, c := range codes {
		if !slices.Contains(kb.captures, c) {
			kb.captures = append(kb.captures, c)
		}
	}
}

// RemoveCapture unmarks keys.
func (kb *KeyboardPlugin) RemoveCapture(codes ...ebiten.Key) {
	kb.captures = slices.DeleteFunc(kb.captures, func(c ebiten.Key) bool {
		return slices.Contains(codes, c)
	})
}

// Captures returns the captured keys.
func (kb *KeyboardPlugin) Captures() []ebiten.Key { return kb.captures }

// ClearCaptures removes every capture.
func (kb *KeyboardPlugin) ClearCaptures() { kb.captures = nil }

// ResetKeys releases every tracked key without emitting events.
func (kb *KeyboardPlugin) ResetKeys() {
	for _, key := range kb.keys {
		key.Reset()
	}
}

func (kb *KeyboardPlugin) shutdown() {
	kb.ResetKeys()
	if kb.manager != nil {
		kb.manager.events.RemoveOwner(kb)
	}
	if sys := kb.input.systems; sys != nil {
		ev := sys.events
		ev.Off(ScenePause.Name, kb)
		ev.Off(SceneSleep.Name, kb)
	}
}

func (kb *KeyboardPlugin) destroy() {
	kb.shutdown()
	kb.RemoveAllKeys(true, false)
	for _, kc := range slices.Clone(kb.combos) {
		kc.Destroy()
	}
	kb.captures = nil
	kb.events.RemoveAllListeners()
	if g := kb.input.systems.game; g != nil {
		g.events.RemoveOwner(kb)
	}
	kb.input.pluginEvents.RemoveOwner(kb)
}
