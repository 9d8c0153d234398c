package aspen

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// keyNames maps the upper-case key names accepted by AddKey, AddKeys and
// CreateCombo to Ebitengine keys.
var keyNames = map[string]ebiten.Key{
	"A":               ebiten.KeyA,
	"B":               ebiten.KeyB,
	"C":               ebiten.KeyC,
	"D":               ebiten.KeyD,
	"E":               ebiten.KeyE,
	"F":               ebiten.KeyF,
	"G":               ebiten.KeyG,
	"H":               ebiten.KeyH,
	"I":               ebiten.KeyI,
	"J":               ebiten.KeyJ,
	"K":               ebiten.KeyK,
	"L":               ebiten.KeyL,
	"M":               ebiten.KeyM,
	"N":               ebiten.KeyN,
	"O":               ebiten.KeyO,
	"P":               ebiten.KeyP,
	"Q":               ebiten.KeyQ,
	"R":               ebiten.KeyR,
	"S":               ebiten.KeyS,
	"T":               ebiten.KeyT,
	"U":               ebiten.KeyU,
	"V":               ebiten.KeyV,
	"W":               ebiten.KeyW,
	"X":               ebiten.KeyX,
	"Y":               ebiten.KeyY,
	"Z":               ebiten.KeyZ,
	"BACKSPACE":       ebiten.KeyBackspace,
	"TAB":             ebiten.KeyTab,
	"ENTER":           ebiten.KeyEnter,
	"SHIFT":           ebiten.KeyShift,
	"CTRL":            ebiten.KeyControl,
	"ALT":             ebiten.KeyAlt,
	"META":            ebiten.KeyMeta,
	"PAUSE":           ebiten.KeyPause,
	"CAPS_LOCK":       ebiten.KeyCapsLock,
	"ESC":             ebiten.KeyEscape,
	"SPACE":           ebiten.KeySpace,
	"PAGE_UP":         ebiten.KeyPageUp,
	"PAGE_DOWN":       ebiten.KeyPageDown,
	"END":             ebiten.KeyEnd,
	"HOME":            ebiten.KeyHome,
	"LEFT":            ebiten.KeyArrowLeft,
	"UP":              ebiten.KeyArrowUp,
	"RIGHT":           ebiten.KeyArrowRight,
	"DOWN":            ebiten.KeyArrowDown,
	"PRINT_SCREEN":    ebiten.KeyPrintScreen,
	"INSERT":          ebiten.KeyInsert,
	"DELETE":          ebiten.KeyDelete,
	"ZERO":            ebiten.KeyDigit0,
	"ONE":             ebiten.KeyDigit1,
	"TWO":             ebiten.KeyDigit2,
	"THREE":           ebiten.KeyDigit3,
	"FOUR":            ebiten.KeyDigit4,
	"FIVE":            ebiten.KeyDigit5,
	"SIX":             ebiten.KeyDigit6,
	"SEVEN":           ebiten.KeyDigit7,
	"EIGHT":           ebiten.KeyDigit8,
	"NINE":            ebiten.KeyDigit9,
	"NUMPAD_ZERO":     ebiten.KeyNumpad0,
	"NUMPAD_ONE":      ebiten.KeyNumpad1,
	"NUMPAD_TWO":      ebiten.KeyNumpad2,
	"NUMPAD_THREE":    ebiten.KeyNumpad3,
	"NUMPAD_FOUR":     ebiten.KeyNumpad4,
	"NUMPAD_FIVE":     ebiten.KeyNumpad5,
	"NUMPAD_SIX":      ebiten.KeyNumpad6,
	"NUMPAD_SEVEN":    ebiten.KeyNumpad7,
	"NUMPAD_EIGHT":    ebiten.KeyNumpad8,
	"NUMPAD_NINE":     ebiten.KeyNumpad9,
	"NUMPAD_ADD":      ebiten.KeyNumpadAdd,
	"NUMPAD_SUBTRACT": ebiten.KeyNumpadSubtract,
	"F1":              ebiten.KeyF1,
	"F2":              ebiten.KeyF2,
	"F3":              ebiten.KeyF3,
	"F4":              ebiten.KeyF4,
	"F5":              ebiten.KeyF5,
	"F6":              ebiten.KeyF6,
	"F7":              ebiten.KeyF7,
	"F8":              ebiten.KeyF8,
	"F9":              ebiten.KeyF9,
	"F10":             ebiten.KeyF10,
	"F11":             ebiten.KeyF11,
	"F12":             ebiten.KeyF12,
	"SEMICOLON":       ebiten.KeySemicolon,
	"PLUS":            ebiten.KeyEqual,
	"COMMA":           ebiten.KeyComma,
	"MINUS":           ebiten.KeyMinus,
	"PERIOD":          ebiten.KeyPeriod,
	"FORWARD_SLASH":   ebiten.KeySlash,
	"BACK_SLASH":      ebiten.KeyBackslash,
	"QUOTES":          ebiten.KeyQuote,
	"BACKTICK":        ebiten.KeyBackquote,
	"OPEN_BRACKET":    ebiten.KeyBracketLeft,
	"CLOSED_BRACKET":  ebiten.KeyBracketRight,
}

var keyCodeNames = func() map[ebiten.Key]string {
	m := make(map[ebiten.Key]string, len(keyNames))
	for name, k := range keyNames {
		m[k] = name
	}
	return m
}()

// ParseKey resolves a key name such as "W", "SPACE" or "UP". Names are case
// insensitive; Ebitengine names such as "ArrowUp" are accepted too.
func ParseKey(name string) (ebiten.Key, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if k, ok := keyNames[upper]; ok {
		return k, true
	}
	var k ebiten.Key
	if err := k.UnmarshalText([]byte(strings.TrimSpace(name))); err == nil {
		return k, true
	}
	return 0, false
}

// KeyName returns the name used in keydown-NAME and keyup-NAME events, or
// Ebitengine's name for keys without one.
func KeyName(k ebiten.Key) string {
	if name, ok := keyCodeNames[k]; ok {
		return name
	}
	return strings.ToUpper(k.String())
}
