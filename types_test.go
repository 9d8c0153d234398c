package aspen

import (
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside", 50, 40, true},
		{"top-left edge", 10, 20, true},
		{"bottom-right edge", 110, 70, true},
		{"left of", 9, 40, false},
		{"below", 50, 71, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlap", Rect{X: 5, Y: 5, Width: 10, Height: 10}, true},
		{"shared edge", Rect{X: 10, Y: 0, Width: 5, Height: 5}, true},
		{"contained", Rect{X: 2, Y: 2, Width: 2, Height: 2}, true},
		{"apart", Rect{X: 11, Y: 11, Width: 5, Height: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, got, tt.want)
			}
		})
	}
}

func TestBlendModeEbitenBlend(t *testing.T) {
	modes := []struct {
		mode   BlendMode
		name   string
		expect ebiten.Blend
	}{
		{BlendNormal, "BlendNormal", ebiten.BlendSourceOver},
		{BlendAdd, "BlendAdd", ebiten.BlendLighter},
		{BlendErase, "BlendErase", ebiten.BlendDestinationOut},
	}
	for _, tt := range modes {
		if got := tt.mode.EbitenBlend(); got != tt.expect {
			t.Errorf("%s.EbitenBlend() = %v, want %v", tt.name, got, tt.expect)
		}
	}
	zero := ebiten.Blend{}
	for _, m := range []BlendMode{BlendMultiply, BlendScreen, BlendMask} {
		if m.EbitenBlend() == zero {
			t.Errorf("BlendMode(%d).EbitenBlend() returned zero blend", m)
		}
	}
}

func TestColorRGBA(t *testing.T) {
	if got := ColorWhite.RGBA(); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("white = %v", got)
	}
	half := Color{R: 1, G: 0, B: 0, A: 0.5}
	if got := half.RGBA(); got != (color.RGBA{128, 0, 0, 128}) {
		t.Errorf("premultiplied half red = %v, want {128 0 0 128}", got)
	}
	over := Color{R: 2, G: -1, B: 0.5, A: 1}
	if got := over.RGBA(); got.R != 255 || got.G != 0 {
		t.Errorf("out of range components not clamped: %v", got)
	}
}

func TestEnumValues(t *testing.T) {
	if NodeTypeRect != 2 {
		t.Errorf("NodeTypeRect = %d, want 2", NodeTypeRect)
	}
	if EventPinch != 7 || EventPointerLeave != 9 {
		t.Errorf("EventPinch = %d, EventPointerLeave = %d", EventPinch, EventPointerLeave)
	}
	if MouseButtonMiddle != 2 {
		t.Errorf("MouseButtonMiddle = %d, want 2", MouseButtonMiddle)
	}
	if ModShift != 1 || ModCtrl != 2 || ModAlt != 4 || ModMeta != 8 {
		t.Errorf("modifiers = %d %d %d %d", ModShift, ModCtrl, ModAlt, ModMeta)
	}
}

func TestEventTypeString(t *testing.T) {
	if got := EventDragEnd.String(); got != "dragend" {
		t.Errorf("EventDragEnd = %q, want dragend", got)
	}
	if got := EventType(42).String(); got != "EventType(42)" {
		t.Errorf("unknown = %q", got)
	}
}

func TestKeyModifiersHas(t *testing.T) {
	m := ModShift | ModAlt
	if !m.Has(ModShift) || !m.Has(ModShift|ModAlt) || m.Has(ModCtrl) || m.Has(ModShift|ModCtrl) {
		t.Errorf("Has on %04b gave the wrong answer", m)
	}
}
