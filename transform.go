package aspen

import "math"

// affine is a 2D affine matrix laid out as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type affine [6]float64

var identityAffine = affine{1, 0, 0, 1, 0, 0}

// localAffine builds n's local matrix. Order of application:
// pivot offset, scale, skew, rotate, translate.
func localAffine(n *Node) affine {
	sx, sy := n.ScaleX, n.ScaleY
	sin, cos := math.Sincos(n.Rotation)

	var kx, ky float64
	if n.SkewX != 0 {
		kx = math.Tan(n.SkewX)
	}
	if n.SkewY != 0 {
		ky = math.Tan(n.SkewY)
	}

	// scale then skew
	a, b := sx, ky*sx
	c, d := kx*sy, sy
	px, py := n.PivotX, n.PivotY
	tx := -px*sx - kx*py*sy
	ty := -ky*px*sx - py*sy

	return affine{
		cos*a - sin*b,
		sin*a + cos*b,
		cos*c - sin*d,
		sin*c + cos*d,
		cos*tx - sin*ty + n.X,
		sin*tx + cos*ty + n.Y,
	}
}

// mul returns m * o, applying o first.
func (m affine) mul(o affine) affine {
	return affine{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// invert returns the inverse of m, or the identity when m is singular.
func (m affine) invert() affine {
	det := m[0]*m[3] - m[2]*m[1]
	if math.Abs(det) < 1e-12 {
		return identityAffine
	}
	inv := 1 / det
	a, b := m[3]*inv, -m[1]*inv
	c, d := -m[2]*inv, m[0]*inv
	return affine{a, b, c, d, -(a*m[4] + c*m[5]), -(b*m[4] + d*m[5])}
}

// apply transforms the point (x, y).
func (m affine) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// bounds returns the axis-aligned box of the w x h rectangle at the origin
// after transforming it by m.
func (m affine) bounds(w, h float64) Rect {
	x0, y0 := m.apply(0, 0)
	x1, y1 := m.apply(w, 0)
	x2, y2 := m.apply(w, h)
	x3, y3 := m.apply(0, h)
	minX := min(x0, x1, x2, x3)
	minY := min(y0, y1, y2, y3)
	return Rect{X: minX, Y: minY, Width: max(x0, x1, x2, x3) - minX, Height: max(y0, y1, y2, y3) - minY}
}

// updateWorld refreshes the world matrix and alpha of n and its subtree.
// force recomputes clean nodes whose parent changed.
func updateWorld(n *Node, parent affine, parentAlpha float64, force bool) {
	recompute := n.transformDirty || force
	if recompute {
		n.world = parent.mul(localAffine(n))
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}
	for _, child := range n.children {
		updateWorld(child, n.world, n.worldAlpha, recompute)
	}
}

func (n *Node) SetPosition(x, y float64) {
	n.X, n.Y = x, y
	n.transformDirty = true
}

func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX, n.ScaleY = sx, sy
	n.transformDirty = true
}

// SetRotation sets the rotation in radians.
func (n *Node) SetRotation(r float64) {
	n.Rotation = r
	n.transformDirty = true
}

func (n *Node) SetSkew(sx, sy float64) {
	n.SkewX, n.SkewY = sx, sy
	n.transformDirty = true
}

func (n *Node) SetPivot(px, py float64) {
	n.PivotX, n.PivotY = px, py
	n.transformDirty = true
}

func (n *Node) SetAlpha(a float64) {
	n.Alpha = a
	n.transformDirty = true
}

// MarkDirty forces the world transform to be recomputed. Call it after
// writing transform fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// WorldToLocal converts a world point to n's local space.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return n.world.invert().apply(wx, wy)
}

// LocalToWorld converts a point in n's local space to world space.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return n.world.apply(lx, ly)
}

// WorldPosition returns the world position of n's local origin.
func (n *Node) WorldPosition() (x, y float64) {
	return n.world[4], n.world[5]
}

// WorldBounds returns the world-space box of n's own size. Containers with
// no size return an empty rect at their origin.
func (n *Node) WorldBounds() Rect {
	w, h := n.Size()
	return n.world.bounds(w, h)
}
