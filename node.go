package aspen

import (
	"cmp"
	"slices"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
)

// HitShape is a custom hit testing region in a node's local space.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitRect is a rectangular HitShape.
type HitRect Rect

func (r HitRect) Contains(x, y float64) bool { return Rect(r).Contains(x, y) }

// HitCircle is a circular HitShape centered on (X, Y).
type HitCircle struct {
	X, Y, Radius float64
}

func (c HitCircle) Contains(x, y float64) bool {
	dx, dy := x-c.X, y-c.Y
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

var lastNodeID atomic.Uint32

// NodeCallbacks are the per-node input handlers. They run after the scene's
// InputPlugin listeners for the same event.
type NodeCallbacks struct {
	OnPointerDown  func(PointerEvent)
	OnPointerUp    func(PointerEvent)
	OnPointerMove  func(PointerEvent)
	OnClick        func(PointerEvent)
	OnDragStart    func(PointerEvent)
	OnDrag         func(PointerEvent)
	OnDragEnd      func(PointerEvent)
	OnPinch        func(PinchEvent)
	OnPointerEnter func(PointerEvent)
	OnPointerLeave func(PointerEvent)
}

// Node is the display element every game object is built from: a container,
// a sprite or a solid rect, told apart by Type.
type Node struct {
	ID   uint32
	Name string
	Type NodeType

	Parent   *Node
	children []*Node
	// depth-ordered view of children, rebuilt when sorted is false
	sorted         []*Node
	childrenSorted bool

	// Local transform. Rotation is in radians; the pivot is in local pixels.
	X, Y           float64
	ScaleX, ScaleY float64
	Rotation       float64
	SkewX, SkewY   float64
	PivotX, PivotY float64

	world          affine
	worldAlpha     float64
	transformDirty bool

	Alpha        float64
	Visible      bool
	Interactable bool
	// Draggable nodes receive drag events instead of move events while a
	// pointer is held on them.
	Draggable bool

	// Depth orders siblings; higher draws later and is hit first.
	Depth int

	UserData any
	EntityID uint32

	// Image is drawn by sprite nodes.
	Image *ebiten.Image
	// Width and Height size rect nodes and the default hit area of
	// containers.
	Width, Height float64
	Color         Color
	BlendMode     BlendMode

	HitShape HitShape
	mask     *Node
	geomMask *GeometryMask

	scene    *Scene
	disposed bool

	// OnPreUpdate runs every scene update while the node is on the scene's
	// update list.
	OnPreUpdate func(time, delta float64)
	NodeCallbacks
}

func newNode(name string, typ NodeType) *Node {
	return &Node{
		ID:             lastNodeID.Add(1),
		Name:           name,
		Type:           typ,
		ScaleX:         1,
		ScaleY:         1,
		Alpha:          1,
		Visible:        true,
		Color:          ColorWhite,
		world:          identityAffine,
		worldAlpha:     1,
		transformDirty: true,
		childrenSorted: true,
	}
}

// NewContainer creates a node that only groups its children.
func NewContainer(name string) *Node { return newNode(name, NodeTypeContainer) }

// NewSprite creates a node that draws img.
func NewSprite(name string, img *ebiten.Image) *Node {
	n := newNode(name, NodeTypeSprite)
	n.Image = img
	return n
}

// NewRect creates a node that draws a solid w x h rectangle.
func NewRect(name string, w, h float64, c Color) *Node {
	n := newNode(name, NodeTypeRect)
	n.Width, n.Height = w, h
	n.Color = c
	return n
}

// Size returns the node's local width and height. Sprites report their
// image size.
func (n *Node) Size() (w, h float64) {
	if n.Type == NodeTypeSprite && n.Image != nil {
		b := n.Image.Bounds()
		return float64(b.Dx()), float64(b.Dy())
	}
	return n.Width, n.Height
}

// Scene returns the scene whose display list holds the node, or nil.
func (n *Node) Scene() *Scene { return n.scene }

// AddChild appends child, taking it from any previous parent first.
// Panics if child is nil or an ancestor of n.
func (n *Node) AddChild(child *Node) {
	n.insertChild(child, -1, "AddChild")
}

// AddChildAt inserts child at index among n's children.
func (n *Node) AddChildAt(child *Node, index int) {
	n.insertChild(child, index, "AddChildAt")
}

// insertChild adds child at index; a negative index appends.
func (n *Node) insertChild(child *Node, index int, op string) {
	if child == nil {
		panic("aspen: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, op+" (parent)")
		debugCheckDisposed(child, op+" (child)")
	}
	for p := n; p != nil; p = p.Parent {
		if p == child {
			panic("aspen: adding child would create a cycle")
		}
	}
	if child.Parent != nil {
		child.Parent.unlink(child)
	}
	if index < 0 {
		index = len(n.children)
	}
	if index > len(n.children) {
		panic("aspen: child index out of range")
	}

	n.children = slices.Insert(n.children, index, child)
	child.Parent = n
	n.childrenSorted = false
	child.walk(func(c *Node) {
		c.transformDirty = true
		if n.scene != nil {
			c.scene = n.scene
		}
	})
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// unlink drops child from n's child list and clears its parent.
func (n *Node) unlink(child *Node) {
	if i := slices.Index(n.children, child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
	child.Parent = nil
	n.childrenSorted = false
}

// release unlinks child and detaches its subtree from the scene.
func (n *Node) release(child *Node) {
	n.unlink(child)
	child.walk(func(c *Node) {
		c.transformDirty = true
		c.scene = nil
	})
}

// RemoveChild detaches child. Panics if child's parent is not n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("aspen: child's parent is not this node")
	}
	n.release(child)
}

// RemoveChildAt removes and returns the child at index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("aspen: child index out of range")
	}
	child := n.children[index]
	n.release(child)
	return child
}

// RemoveFromParent detaches n from its parent, if any.
func (n *Node) RemoveFromParent() {
	if n.Parent != nil {
		n.Parent.release(n)
	}
}

// RemoveChildren detaches every child. Children are not disposed.
func (n *Node) RemoveChildren() {
	for len(n.children) > 0 {
		n.release(n.children[len(n.children)-1])
	}
	n.childrenSorted = true
}

// Children returns the child list. Callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

func (n *Node) NumChildren() int { return len(n.children) }

func (n *Node) ChildAt(index int) *Node { return n.children[index] }

// SetChildIndex moves child to index among its siblings.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child.Parent != n {
		panic("aspen: child's parent is not this node")
	}
	if index < 0 || index >= len(n.children) {
		panic("aspen: child index out of range")
	}
	from := slices.Index(n.children, child)
	n.children = slices.Insert(slices.Delete(n.children, from, from+1), index, child)
	n.childrenSorted = false
}

// SetDepth sets the node's depth and queues a depth sort.
func (n *Node) SetDepth(depth int) {
	if n.Depth == depth {
		return
	}
	n.Depth = depth
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
	if n.scene != nil && n.scene.sys != nil {
		n.scene.sys.QueueDepthSort()
	}
}

// sortedChildList returns the children ordered by Depth. Ties keep
// insertion order.
func (n *Node) sortedChildList() []*Node {
	if len(n.children) == 0 {
		return nil
	}
	if !n.childrenSorted || len(n.sorted) != len(n.children) {
		n.sorted = append(n.sorted[:0], n.children...)
		slices.SortStableFunc(n.sorted, func(a, b *Node) int { return cmp.Compare(a.Depth, b.Depth) })
		n.childrenSorted = true
	}
	return n.sorted
}

// walk calls fn on n and then on every descendant, parents first.
func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}

// attach records scene on n and every descendant.
func (n *Node) attach(scene *Scene) {
	n.walk(func(c *Node) { c.scene = scene })
}

func (n *Node) detach() {
	n.walk(func(c *Node) { c.scene = nil })
}

// Dispose removes n from its parent and releases it and its descendants.
// A disposed node must not be reused.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.walk(func(c *Node) {
		c.disposed = true
		c.ID = 0
	})
	n.walk((*Node).clearRefs)
}

func (n *Node) clearRefs() {
	for _, c := range n.children {
		c.Parent = nil
	}
	n.children, n.sorted = nil, nil
	n.Parent, n.scene = nil, nil
	n.HitShape, n.mask, n.geomMask = nil, nil, nil
	n.Image = nil
	n.UserData = nil
	n.OnPreUpdate = nil
	n.NodeCallbacks = NodeCallbacks{}
}

// IsDisposed reports whether Dispose has been called.
func (n *Node) IsDisposed() bool { return n.disposed }
