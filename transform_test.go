package aspen

import (
	"math"
	"testing"
)

func assertMatrix(t *testing.T, name string, got, want affine) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- localAffine ---

func TestLocalTransformIdentity(t *testing.T) {
	n := NewContainer("test")
	assertMatrix(t, "identity", localAffine(n), affine{1, 0, 0, 1, 0, 0})
}

func TestLocalTransformTranslation(t *testing.T) {
	n := NewContainer("test")
	n.SetPosition(10, 20)
	assertMatrix(t, "translation", localAffine(n), affine{1, 0, 0, 1, 10, 20})
}

func TestLocalTransformScale(t *testing.T) {
	n := NewContainer("test")
	n.SetScale(2, 3)
	assertMatrix(t, "scale", localAffine(n), affine{2, 0, 0, 3, 0, 0})
}

func TestLocalTransformRotation90(t *testing.T) {
	n := NewContainer("test")
	n.SetRotation(math.Pi / 2)
	assertMatrix(t, "rot90", localAffine(n), affine{0, 1, -1, 0, 0, 0})
}

func TestLocalTransformPivot(t *testing.T) {
	n := NewContainer("test")
	n.SetPosition(100, 200)
	n.SetPivot(16, 16)
	// T(100,200) * T(-16,-16)
	assertMatrix(t, "pivot", localAffine(n), affine{1, 0, 0, 1, 84, 184})
}

func TestLocalTransformSkew(t *testing.T) {
	n := NewContainer("test")
	n.SetSkew(math.Pi/4, 0)
	assertMatrix(t, "skew", localAffine(n), affine{1, 0, 1, 1, 0, 0})
}

func TestLocalTransformCombined(t *testing.T) {
	n := NewContainer("test")
	n.SetPosition(50, 100)
	n.SetScale(2, 2)
	n.SetRotation(math.Pi / 2)
	assertMatrix(t, "combined", localAffine(n), affine{0, 2, -2, 0, 50, 100})
}

// --- mul / invert ---

func TestAffineMulIdentity(t *testing.T) {
	m := affine{2, 1, 3, 4, 5, 6}
	assertMatrix(t, "id*m", identityAffine.mul(m), m)
	assertMatrix(t, "m*id", m.mul(identityAffine), m)
}

func TestAffineMulTranslations(t *testing.T) {
	a := affine{1, 0, 0, 1, 10, 20}
	b := affine{1, 0, 0, 1, 5, 3}
	assertMatrix(t, "translations", a.mul(b), affine{1, 0, 0, 1, 15, 23})
}

func TestAffineInvert(t *testing.T) {
	n := NewContainer("test")
	n.SetScale(2, 1)
	n.SetRotation(math.Pi / 3)
	n.SetPosition(7, -3)
	m := localAffine(n)
	assertMatrix(t, "m*inv", m.mul(m.invert()), identityAffine)
}

func TestAffineInvertSingularReturnsIdentity(t *testing.T) {
	assertMatrix(t, "zero scale x", affine{0, 0, 0, 1, 5, 5}.invert(), identityAffine)
	assertMatrix(t, "zero scale", affine{0, 0, 0, 0, 0, 0}.invert(), identityAffine)
}

func TestAffineBounds(t *testing.T) {
	n := NewContainer("test")
	n.SetRotation(math.Pi / 2)
	r := localAffine(n).bounds(10, 20)
	assertNear(t, "X", r.X, -20)
	assertNear(t, "Y", r.Y, 0)
	assertNear(t, "Width", r.Width, 20)
	assertNear(t, "Height", r.Height, 10)
}

// --- updateWorld ---

func TestWorldTransformParentChild(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)
	parent.SetPosition(100, 0)
	parent.SetScale(2, 2)
	child.SetPosition(10, 5)

	updateWorld(parent, identityAffine, 1, false)
	x, y := child.WorldPosition()
	assertNear(t, "child world x", x, 120)
	assertNear(t, "child world y", y, 10)
}

func TestAlphaPropagation(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)
	parent.SetAlpha(0.5)
	child.SetAlpha(0.5)

	updateWorld(parent, identityAffine, 1, false)
	assertNear(t, "worldAlpha", child.worldAlpha, 0.25)
}

func TestDirtyFlagSkipsClean(t *testing.T) {
	n := NewContainer("n")
	n.SetPosition(5, 5)
	updateWorld(n, identityAffine, 1, false)

	// writing a field without marking dirty is not picked up
	n.X = 99
	updateWorld(n, identityAffine, 1, false)
	if x, _ := n.WorldPosition(); x != 5 {
		t.Errorf("clean node recomputed: x = %v", x)
	}
	n.MarkDirty()
	updateWorld(n, identityAffine, 1, false)
	if x, _ := n.WorldPosition(); x != 99 {
		t.Errorf("after MarkDirty x = %v, want 99", x)
	}
}

func TestParentRecomputePropagates(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)
	updateWorld(parent, identityAffine, 1, false)

	parent.SetPosition(50, 0)
	updateWorld(parent, identityAffine, 1, false)
	if x, _ := child.WorldPosition(); x != 50 {
		t.Errorf("clean child not recomputed after parent moved: x = %v", x)
	}
}

func TestDeepHierarchy(t *testing.T) {
	root := NewContainer("root")
	cur := root
	for range 10 {
		c := NewContainer("c")
		c.SetPosition(1, 2)
		cur.AddChild(c)
		cur = c
	}
	updateWorld(root, identityAffine, 1, false)
	x, y := cur.WorldPosition()
	assertNear(t, "leaf x", x, 10)
	assertNear(t, "leaf y", y, 20)
}

func TestWorldToLocalRoundtrip(t *testing.T) {
	n := NewContainer("n")
	n.SetPosition(30, 40)
	n.SetScale(2, 0.5)
	n.SetRotation(0.7)
	updateWorld(n, identityAffine, 1, false)

	wx, wy := n.LocalToWorld(3, 4)
	lx, ly := n.WorldToLocal(wx, wy)
	assertNear(t, "lx", lx, 3)
	assertNear(t, "ly", ly, 4)
}

func TestWorldToLocalZeroScale(t *testing.T) {
	n := NewContainer("n")
	n.SetScale(0, 0)
	updateWorld(n, identityAffine, 1, false)
	lx, ly := n.WorldToLocal(5, 6)
	if math.IsNaN(lx) || math.IsNaN(ly) {
		t.Errorf("WorldToLocal on a singular node = (%v, %v)", lx, ly)
	}
}

func TestWorldBounds(t *testing.T) {
	r := NewRect("r", 10, 20, ColorWhite)
	r.SetPosition(5, 5)
	updateWorld(r, identityAffine, 1, false)
	b := r.WorldBounds()
	if b != (Rect{X: 5, Y: 5, Width: 10, Height: 20}) {
		t.Errorf("WorldBounds = %+v", b)
	}
}

func TestSettersMarkDirty(t *testing.T) {
	setters := map[string]func(n *Node){
		"SetPosition": func(n *Node) { n.SetPosition(1, 1) },
		"SetScale":    func(n *Node) { n.SetScale(2, 2) },
		"SetRotation": func(n *Node) { n.SetRotation(1) },
		"SetSkew":     func(n *Node) { n.SetSkew(0.1, 0.1) },
		"SetPivot":    func(n *Node) { n.SetPivot(3, 3) },
		"SetAlpha":    func(n *Node) { n.SetAlpha(0.5) },
	}
	for name, set := range setters {
		n := NewContainer("n")
		updateWorld(n, identityAffine, 1, false)
		set(n)
		if !n.transformDirty {
			t.Errorf("%s did not mark the node dirty", name)
		}
	}
}
