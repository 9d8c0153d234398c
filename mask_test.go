package aspen

import "testing"

func TestSetAndClearMask(t *testing.T) {
	n := NewContainer("n")
	m := NewRect("mask", 10, 10, ColorWhite)
	n.SetMask(m)
	if n.GetMask() != m {
		t.Fatal("GetMask did not return the mask node")
	}
	if m.Parent != nil {
		t.Error("mask node was added to the tree")
	}

	gm := NewRectMask(Rect{Width: 5, Height: 5})
	n.SetGeometryMask(gm)
	if n.GetGeometryMask() != gm {
		t.Fatal("GetGeometryMask did not return the mask")
	}
	n.ClearMask()
	if n.GetMask() != nil || n.GetGeometryMask() != nil {
		t.Error("ClearMask left a mask set")
	}
}

func TestDisposeClearsMasks(t *testing.T) {
	n := NewContainer("n")
	n.SetMask(NewContainer("m"))
	n.SetGeometryMask(NewRectMask(Rect{Width: 1, Height: 1}))
	n.Dispose()
	if n.GetMask() != nil || n.GetGeometryMask() != nil {
		t.Error("Dispose kept masks")
	}
}

func TestGeometryMaskContains(t *testing.T) {
	square := NewRectMask(Rect{X: 0, Y: 0, Width: 10, Height: 10})
	if !square.Contains(5, 5) || square.Contains(15, 5) || square.Contains(-1, 5) {
		t.Error("rect mask containment")
	}

	// L shape: the notch at the top right is outside
	l := NewGeometryMask(
		Vec2{0, 0}, Vec2{5, 0}, Vec2{5, 5}, Vec2{10, 5}, Vec2{10, 10}, Vec2{0, 10},
	)
	if !l.Contains(2, 2) || !l.Contains(8, 8) {
		t.Error("point inside L reported outside")
	}
	if l.Contains(8, 2) {
		t.Error("point in the notch reported inside")
	}

	var empty GeometryMask
	if empty.Contains(0, 0) {
		t.Error("empty mask contains a point")
	}
}

func TestGeometryMaskAsHitShape(t *testing.T) {
	var shape HitShape = NewRectMask(Rect{Width: 4, Height: 4})
	if !shape.Contains(2, 2) {
		t.Error("geometry mask does not work as a hit shape")
	}
}
