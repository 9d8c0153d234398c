package aspen

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color is a straight-alpha tint with float components, nominally in [0, 1].
type Color struct {
	R, G, B, A float64
}

// ColorWhite leaves whatever it tints unchanged.
var ColorWhite = Color{1, 1, 1, 1}

// RGBA clamps c and returns it premultiplied, ready for Fill or ColorScale.
func (c Color) RGBA() color.RGBA {
	a := clamp01(c.A)
	to8 := func(v float64) uint8 { return uint8(v*255 + 0.5) }
	return color.RGBA{
		R: to8(clamp01(c.R) * a),
		G: to8(clamp01(c.G) * a),
		B: to8(clamp01(c.B) * a),
		A: to8(a),
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// Vec2 is a point or offset in pixels, or a stick position in [-1, 1].
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned box in a Y-down space. Edges count as inside for
// both Contains and Intersects.
type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) Contains(x, y float64) bool {
	if x < r.X || y < r.Y {
		return false
	}
	return x <= r.X+r.Width && y <= r.Y+r.Height
}

func (r Rect) Intersects(o Rect) bool {
	if r.X > o.X+o.Width || o.X > r.X+r.Width {
		return false
	}
	return r.Y <= o.Y+o.Height && o.Y <= r.Y+r.Height
}

// WhitePixel is drawn scaled for rect nodes and geometry masks.
var WhitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(1, 1)
	img.Fill(color.White)
	return img
}()

// BlendMode picks how a node composites onto what is already drawn.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source over
	BlendAdd                       // lighter
	BlendMultiply                  // darken only
	BlendScreen                    // brighten only
	BlendErase                     // destination out
	BlendMask                      // keep destination where the source is opaque
)

func additive(src, dst ebiten.BlendFactor, srcA, dstA ebiten.BlendFactor) ebiten.Blend {
	return ebiten.Blend{
		BlendFactorSourceRGB:        src,
		BlendFactorSourceAlpha:      srcA,
		BlendFactorDestinationRGB:   dst,
		BlendFactorDestinationAlpha: dstA,
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
}

var blends = [...]ebiten.Blend{
	BlendNormal: ebiten.BlendSourceOver,
	BlendAdd:    ebiten.BlendLighter,
	BlendMultiply: additive(ebiten.BlendFactorDestinationColor, ebiten.BlendFactorOneMinusSourceAlpha,
		ebiten.BlendFactorDestinationAlpha, ebiten.BlendFactorOneMinusSourceAlpha),
	BlendScreen: additive(ebiten.BlendFactorOne, ebiten.BlendFactorOneMinusSourceColor,
		ebiten.BlendFactorOne, ebiten.BlendFactorOneMinusSourceAlpha),
	BlendErase: ebiten.BlendDestinationOut,
	BlendMask: additive(ebiten.BlendFactorZero, ebiten.BlendFactorSourceAlpha,
		ebiten.BlendFactorZero, ebiten.BlendFactorSourceAlpha),
}

// EbitenBlend maps b to Ebitengine's blend. Unknown modes draw source over.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	if int(b) < len(blends) {
		return blends[b]
	}
	return ebiten.BlendSourceOver
}

// NodeType selects what drawSelf renders for a node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // children only
	NodeTypeSprite                    // Node.Image
	NodeTypeRect                      // WhitePixel scaled to Width x Height
)

// EventType tags an InteractionEvent handed to an EntityStore.
type EventType uint8

const (
	EventPointerDown EventType = iota
	EventPointerUp
	EventPointerMove
	EventClick
	EventDragStart
	EventDrag
	EventDragEnd
	EventPinch
	EventPointerEnter
	EventPointerLeave
)

var eventTypeNames = [...]string{
	"pointerdown", "pointerup", "pointermove", "click",
	"dragstart", "drag", "dragend", "pinch",
	"pointerenter", "pointerleave",
}

func (e EventType) String() string {
	if int(e) < len(eventTypeNames) {
		return eventTypeNames[e]
	}
	return fmt.Sprintf("EventType(%d)", uint8(e))
}

// MouseButton numbers follow ebiten.MouseButton.
type MouseButton uint8

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// KeyModifiers is a set of held modifier keys, combined with |.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether every modifier in m is held.
func (k KeyModifiers) Has(m KeyModifiers) bool { return k&m == m }
