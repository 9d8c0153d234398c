package aspen

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// KeyComboConfig tunes how a KeyCombo matches.
type KeyComboConfig struct {
	// ResetOnWrongKey restarts the combo when a key outside the sequence
	// is pressed. Defaults to true via DefaultKeyComboConfig.
	ResetOnWrongKey bool
	// MaxKeyDelay is the longest gap in ms allowed between two keys. Zero
	// disables the limit.
	MaxKeyDelay float64
	// ResetOnMatch rearms the combo after it matches.
	ResetOnMatch bool
	// DeleteOnMatch removes the combo from its plugin after it matches.
	DeleteOnMatch bool
}

// DefaultKeyComboConfig returns the standard combo settings.
func DefaultKeyComboConfig() KeyComboConfig {
	return KeyComboConfig{ResetOnWrongKey: true}
}

// KeyCombo matches an ordered sequence of key presses.
type KeyCombo struct {
	plugin *KeyboardPlugin
	cfg    KeyComboConfig

	Enabled bool
	codes   []ebiten.Key
	current ebiten.Key
	index   int

	timeLastMatched float64
	matched         bool
	timeMatched     float64
}

func newKeyCombo(plugin *KeyboardPlugin, codes []ebiten.Key, cfg KeyComboConfig) (*KeyCombo, error) {
	if len(codes) < 2 {
		return nil, fmt.Errorf("key combo needs at least 2 keys, got %d", len(codes))
	}
	kc := &KeyCombo{plugin: plugin, cfg: cfg, Enabled: true, codes: codes}
	kc.Reset()
	return kc, nil
}

// Keys returns the sequence.
func (kc *KeyCombo) Keys() []ebiten.Key { return kc.codes }

// Matched reports whether the sequence has been entered.
func (kc *KeyCombo) Matched() bool { return kc.matched }

// TimeMatched returns the loop time of the match in ms.
func (kc *KeyCombo) TimeMatched() float64 { return kc.timeMatched }

// Progress returns the matched fraction of the sequence, 0 to 1.
func (kc *KeyCombo) Progress() float64 {
	return float64(kc.index) / float64(len(kc.codes))
}

// Reset rearms the combo.
func (kc *KeyCombo) Reset() {
	kc.current = kc.codes[0]
	kc.index = 0
	kc.timeLastMatched = 0
	kc.matched = false
	kc.timeMatched = 0
}

// onKeyDown feeds a key press and reports whether it completed the combo.
func (kc *KeyCombo) onKeyDown(ev KeyEvent) bool {
	if kc.matched || !kc.Enabled {
		return false
	}
	keyMatched := false
	comboMatched := false
	if ev.Key == kc.current {
		if kc.index > 0 && kc.cfg.MaxKeyDelay > 0 {
			if ev.Time <= kc.timeLastMatched+kc.cfg.MaxKeyDelay {
				keyMatched = true
				comboMatched = kc.advance(ev)
			}
		} else {
			keyMatched = true
			comboMatched = kc.advance(ev)
		}
	}
	if !keyMatched && kc.cfg.ResetOnWrongKey {
		kc.index = 0
		kc.current = kc.codes[0]
	}
	if comboMatched {
		kc.timeLastMatched = ev.Time
		kc.matched = true
		kc.timeMatched = ev.Time
	}
	return comboMatched
}

func (kc *KeyCombo) advance(ev KeyEvent) bool {
	kc.timeLastMatched = ev.Time
	kc.index++
	if kc.index == len(kc.codes) {
		return true
	}
	kc.current = kc.codes[kc.index]
	return false
}

// Destroy removes the combo from its plugin.
func (kc *KeyCombo) Destroy() {
	if kc.plugin != nil {
		kc.plugin.removeCombo(kc)
	}
	kc.plugin = nil
	kc.Enabled = false
}
