package aspen

import "github.com/hajimehoshi/ebiten/v2"

// SetMask clips n and its subtree to the alpha of maskNode. The mask node is
// not part of the scene tree; its transform is relative to n.
func (n *Node) SetMask(maskNode *Node) {
	n.mask = maskNode
}

// ClearMask removes both the bitmap and geometry masks.
func (n *Node) ClearMask() {
	n.mask = nil
	n.geomMask = nil
}

// GetMask returns the bitmap mask node, or nil.
func (n *Node) GetMask() *Node {
	return n.mask
}

// SetGeometryMask clips n and its subtree to a polygon in n's local space.
func (n *Node) SetGeometryMask(m *GeometryMask) {
	n.geomMask = m
}

// GetGeometryMask returns the geometry mask, or nil.
func (n *Node) GetGeometryMask() *GeometryMask {
	return n.geomMask
}

// GeometryMask is a polygon clip region. It also satisfies HitShape so the
// same shape can limit pointer hits.
type GeometryMask struct {
	Points []Vec2
}

// NewGeometryMask creates a mask from a closed polygon. Points need not be
// convex but the outline must not self-intersect.
func NewGeometryMask(points ...Vec2) *GeometryMask {
	return &GeometryMask{Points: points}
}

// NewRectMask creates a rectangular geometry mask.
func NewRectMask(r Rect) *GeometryMask {
	return NewGeometryMask(
		Vec2{r.X, r.Y},
		Vec2{r.X + r.Width, r.Y},
		Vec2{r.X + r.Width, r.Y + r.Height},
		Vec2{r.X, r.Y + r.Height},
	)
}

// Contains reports whether (x, y) lies inside the polygon (even-odd rule).
func (m *GeometryMask) Contains(x, y float64) bool {
	pts := m.Points
	inside := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// fill draws the polygon in opaque white onto dst, transformed by m.
func (gm *GeometryMask) fill(dst *ebiten.Image, m affine) {
	n := len(gm.Points)
	if n < 3 {
		return
	}
	verts := make([]ebiten.Vertex, n)
	inds := make([]uint16, 0, (n-2)*3)
	for i, p := range gm.Points {
		x, y := m.apply(p.X, p.Y)
		verts[i] = ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		}
	}
	// A fan with the non-zero rule covers concave outlines: overlapping
	// triangles of opposite winding cancel.
	for i := 1; i < n-1; i++ {
		inds = append(inds, 0, uint16(i), uint16(i+1))
	}
	dst.DrawTriangles(verts, inds, WhitePixel, &ebiten.DrawTrianglesOptions{
		FillRule: ebiten.FillRuleNonZero,
	})
}
