package aspen

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// camTween runs a pair of gween tweens over two camera fields.
type camTween struct {
	a, b       *gween.Tween
	fa, fb     *float64
	doneA      bool
	doneB      bool
	onComplete func()
}

func (t *camTween) update(dt float32) bool {
	if !t.doneA {
		v, done := t.a.Update(dt)
		*t.fa = float64(v)
		t.doneA = done
	}
	if t.b != nil && !t.doneB {
		v, done := t.b.Update(dt)
		*t.fb = float64(v)
		t.doneB = done
	}
	return t.doneA && (t.b == nil || t.doneB)
}

// Camera is a view into a scene's display list: the world point it centers
// on, zoom, rotation and the screen viewport it draws into.
type Camera struct {
	Name string
	// X and Y are the world position at the center of the viewport.
	X, Y float64
	// Zoom scales the view; 2 shows half as much of the world.
	Zoom float64
	// Rotation in radians, clockwise.
	Rotation float64
	// Viewport is the screen rectangle the camera draws into.
	Viewport        Rect
	BackgroundColor Color
	Visible         bool
	// CullEnabled skips nodes outside the viewport.
	CullEnabled bool

	followTarget  *Node
	followOffsetX float64
	followOffsetY float64
	followLerp    float64

	// BoundsEnabled keeps the visible area inside Bounds.
	BoundsEnabled bool
	Bounds        Rect

	view    affine
	invView affine
	dirty   bool

	scroll *camTween
	zoom   *camTween
}

// NewCamera creates a camera drawing into viewport, centered on the middle
// of the viewport.
func NewCamera(name string, viewport Rect) *Camera {
	return &Camera{
		Name:        name,
		X:           viewport.Width / 2,
		Y:           viewport.Height / 2,
		Zoom:        1,
		Viewport:    viewport,
		Visible:     true,
		CullEnabled: true,
		dirty:       true,
	}
}

// Follow tracks node each update. lerp 1 snaps; lower values ease in.
func (c *Camera) Follow(node *Node, offsetX, offsetY, lerp float64) {
	c.followTarget = node
	c.followOffsetX = offsetX
	c.followOffsetY = offsetY
	c.followLerp = lerp
}

// Unfollow stops tracking.
func (c *Camera) Unfollow() { c.followTarget = nil }

// Pan moves the camera center to (x, y) over duration ms. onComplete may
// be nil.
func (c *Camera) Pan(x, y, duration float64, fn ease.TweenFunc, onComplete func()) {
	if fn == nil {
		fn = ease.Linear
	}
	c.scroll = &camTween{
		a:          gween.New(float32(c.X), float32(x), float32(duration), fn),
		b:          gween.New(float32(c.Y), float32(y), float32(duration), fn),
		fa:         &c.X,
		fb:         &c.Y,
		onComplete: onComplete,
	}
}

// ZoomTo animates Zoom to zoom over duration ms.
func (c *Camera) ZoomTo(zoom, duration float64, fn ease.TweenFunc, onComplete func()) {
	if fn == nil {
		fn = ease.Linear
	}
	c.zoom = &camTween{
		a:          gween.New(float32(c.Zoom), float32(zoom), float32(duration), fn),
		fa:         &c.Zoom,
		onComplete: onComplete,
	}
}

// CenterOn moves the camera center to (x, y) immediately.
func (c *Camera) CenterOn(x, y float64) {
	c.X, c.Y = x, y
	c.dirty = true
	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// SetBounds keeps the visible area inside bounds.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// RemoveBounds disables bounds clamping.
func (c *Camera) RemoveBounds() { c.BoundsEnabled = false }

// update advances follow, pan, zoom and bounds by delta ms.
func (c *Camera) update(delta float64) {
	prevX, prevY := c.X, c.Y
	prevZoom, prevRot := c.Zoom, c.Rotation

	if c.followTarget != nil {
		if c.followTarget.IsDisposed() {
			c.followTarget = nil
		} else {
			tx, ty := c.followTarget.WorldPosition()
			c.X += (tx + c.followOffsetX - c.X) * c.followLerp
			c.Y += (ty + c.followOffsetY - c.Y) * c.followLerp
		}
	}
	if c.scroll != nil && c.scroll.update(float32(delta)) {
		done := c.scroll.onComplete
		c.scroll = nil
		if done != nil {
			done()
		}
	}
	if c.zoom != nil && c.zoom.update(float32(delta)) {
		done := c.zoom.onComplete
		c.zoom = nil
		if done != nil {
			done()
		}
	}
	if c.BoundsEnabled {
		c.clampToBounds()
	}
	if c.X != prevX || c.Y != prevY || c.Zoom != prevZoom || c.Rotation != prevRot {
		c.dirty = true
	}
}

func (c *Camera) clampToBounds() {
	halfW := c.Viewport.Width / (2 * c.Zoom)
	halfH := c.Viewport.Height / (2 * c.Zoom)

	minX, maxX := c.Bounds.X+halfW, c.Bounds.X+c.Bounds.Width-halfW
	minY, maxY := c.Bounds.Y+halfH, c.Bounds.Y+c.Bounds.Height-halfH

	if minX > maxX {
		c.X = c.Bounds.X + c.Bounds.Width/2
	} else {
		c.X = math.Max(minX, math.Min(c.X, maxX))
	}
	if minY > maxY {
		c.Y = c.Bounds.Y + c.Bounds.Height/2
	} else {
		c.Y = math.Max(minY, math.Min(c.Y, maxY))
	}
}

// viewMatrix returns the world-to-screen matrix:
// Translate(viewport center) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y).
func (c *Camera) viewMatrix() affine {
	if !c.dirty {
		return c.view
	}
	c.dirty = false

	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	sin, cos := math.Sincos(-c.Rotation)
	z := c.Zoom

	c.view = affine{
		z * cos, z * sin,
		-z * sin, z * cos,
		cx + z*(-cos*c.X+sin*c.Y),
		cy + z*(-sin*c.X-cos*c.Y),
	}
	c.invView = c.view.invert()
	return c.view
}

// WorldToScreen converts a world point to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return c.viewMatrix().apply(wx, wy)
}

// ScreenToWorld converts a screen point to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.viewMatrix()
	return c.invView.apply(sx, sy)
}

// VisibleBounds returns the world-space box the camera can see.
func (c *Camera) VisibleBounds() Rect {
	c.viewMatrix()
	v := c.Viewport
	m := c.invView
	m[4], m[5] = m.apply(v.X, v.Y)
	return m.bounds(v.Width, v.Height)
}

// MarkDirty forces the view matrix to be rebuilt.
func (c *Camera) MarkDirty() { c.dirty = true }
