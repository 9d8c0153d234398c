package aspen

import (
	"image"
	"math/bits"

	"github.com/hajimehoshi/ebiten/v2"
)

// renderTexturePool keeps offscreen images keyed by power-of-two size.
type renderTexturePool struct {
	buckets map[uint64][]*ebiten.Image
}

func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// acquire returns a cleared image of at least w x h pixels.
func (p *renderTexturePool) acquire(w, h int) *ebiten.Image {
	pw, ph := nextPowerOfTwo(w), nextPowerOfTwo(h)
	key := poolKey(pw, ph)
	if stack := p.buckets[key]; len(stack) > 0 {
		img := stack[len(stack)-1]
		p.buckets[key] = stack[:len(stack)-1]
		img.Clear()
		return img
	}
	return ebiten.NewImageWithOptions(image.Rect(0, 0, pw, ph), &ebiten.NewImageOptions{Unmanaged: true})
}

// release returns img to the pool. It is cleared on the next acquire.
func (p *renderTexturePool) release(img *ebiten.Image) {
	if img == nil {
		return
	}
	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())
	p.buckets[key] = append(p.buckets[key], img)
}

func (p *renderTexturePool) clear() {
	for _, stack := range p.buckets {
		for _, img := range stack {
			img.Deallocate()
		}
	}
	p.buckets = nil
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func geoM(m affine) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// render draws the display list through every visible camera.
func (cm *CameraManager) render(screen *ebiten.Image, dl *DisplayList) {
	dl.updateTransforms()
	for _, cam := range cm.cameras {
		if cam.Visible {
			cm.renderCamera(screen, cam, dl.root)
		}
	}
}

func (cm *CameraManager) renderCamera(screen *ebiten.Image, cam *Camera, root *Node) {
	v := cam.Viewport
	vp := image.Rect(int(v.X), int(v.Y), int(v.X+v.Width), int(v.Y+v.Height))
	target, ok := screen.SubImage(vp).(*ebiten.Image)
	if !ok || target.Bounds().Empty() {
		return
	}
	if cam.BackgroundColor.A > 0 {
		target.Fill(cam.BackgroundColor.RGBA())
	}
	d := drawer{pool: &cm.rt, cull: cam.CullEnabled, bounds: v}
	view := cam.viewMatrix()
	for _, child := range root.sortedChildList() {
		d.drawNode(target, child, view)
	}
}

// drawer walks a node tree issuing DrawImage calls. Nodes in the tree use
// their cached world transforms; mask nodes, which live outside the tree,
// are walked with transforms computed on the fly.
type drawer struct {
	pool   *renderTexturePool
	cull   bool
	bounds Rect
}

func (d *drawer) drawNode(dst *ebiten.Image, n *Node, view affine) {
	if !n.Visible {
		return
	}
	if n.mask != nil || n.geomMask != nil {
		d.drawMasked(dst, n, view)
		return
	}
	d.drawSelf(dst, n, view.mul(n.world), n.worldAlpha)
	for _, child := range n.sortedChildList() {
		d.drawNode(dst, child, view)
	}
}

// drawDetached draws n's subtree under parent without touching the cached
// world transforms.
func (d *drawer) drawDetached(dst *ebiten.Image, n *Node, parent affine, parentAlpha float64) {
	if !n.Visible {
		return
	}
	m := parent.mul(localAffine(n))
	alpha := parentAlpha * n.Alpha
	d.drawSelf(dst, n, m, alpha)
	for _, child := range n.sortedChildList() {
		d.drawDetached(dst, child, m, alpha)
	}
}

func (d *drawer) drawSelf(dst *ebiten.Image, n *Node, m affine, alpha float64) {
	var src *ebiten.Image
	var sw, sh float64
	switch n.Type {
	case NodeTypeSprite:
		if n.Image == nil {
			return
		}
		src = n.Image
		w, h := n.Size()
		sw, sh = w, h
	case NodeTypeRect:
		if n.Width <= 0 || n.Height <= 0 {
			return
		}
		src = WhitePixel
		sw, sh = n.Width, n.Height
	default:
		return
	}
	if d.cull && !m.bounds(sw, sh).Intersects(d.bounds) {
		return
	}

	var op ebiten.DrawImageOptions
	if n.Type == NodeTypeRect {
		op.GeoM.Scale(sw, sh)
	}
	op.GeoM.Concat(geoM(m))
	a := float32(n.Color.A * alpha)
	op.ColorScale.Scale(float32(n.Color.R)*a, float32(n.Color.G)*a, float32(n.Color.B)*a, a)
	op.Blend = n.BlendMode.EbitenBlend()
	dst.DrawImage(src, &op)
}

// drawMasked renders n's subtree offscreen, clips it with the node's mask
// and composites the result onto dst.
func (d *drawer) drawMasked(dst *ebiten.Image, n *Node, view affine) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	shift := affine{1, 0, 0, 1, -float64(b.Min.X), -float64(b.Min.Y)}
	local := shift.mul(view)

	content := d.pool.acquire(w, h)
	inner := drawer{pool: d.pool}
	inner.drawSelf(content, n, local.mul(n.world), n.worldAlpha)
	for _, child := range n.sortedChildList() {
		inner.drawNode(content, child, local)
	}

	maskImg := d.pool.acquire(w, h)
	if n.mask != nil {
		inner.drawDetached(maskImg, n.mask, local.mul(n.world), 1)
	}
	if n.geomMask != nil {
		n.geomMask.fill(maskImg, local.mul(n.world))
	}

	var op ebiten.DrawImageOptions
	op.Blend = BlendMask.EbitenBlend()
	content.DrawImage(maskImg, &op)

	var out ebiten.DrawImageOptions
	out.GeoM.Translate(float64(b.Min.X), float64(b.Min.Y))
	out.Blend = n.BlendMode.EbitenBlend()
	dst.DrawImage(content, &out)

	d.pool.release(maskImg)
	d.pool.release(content)
}
