package aspen

import "math"

const defaultDragDeadZone = 4.0 // pixels

// PointerEvent describes one pointer interaction. Node is nil for events
// over empty space.
type PointerEvent struct {
	Node     *Node
	EntityID uint32
	UserData any

	GlobalX, GlobalY float64 // world coordinates
	LocalX, LocalY   float64 // node-local coordinates
	ScreenX, ScreenY float64

	// Drag fields, valid for drag start, drag and drag end.
	StartX, StartY float64
	DeltaX, DeltaY float64

	Button    MouseButton
	PointerID int
	Modifiers KeyModifiers
}

// PinchEvent describes a two-finger pinch and rotate gesture in world
// coordinates.
type PinchEvent struct {
	CenterX, CenterY float64
	Scale            float64 // relative to the distance at gesture start
	ScaleDelta       float64 // change since the previous frame
	Rotation         float64 // radians since gesture start
	RotDelta         float64
}

// WheelEvent reports mouse wheel movement at the mouse position.
type WheelEvent struct {
	GlobalX, GlobalY float64
	DeltaX, DeltaY   float64
}

// Pointer events, emitted on InputPlugin.Events(). Scene-level listeners run
// before the node's own callback.
var (
	InputPointerDown = NewEvent[PointerEvent]("pointerdown")
	InputPointerUp   = NewEvent[PointerEvent]("pointerup")
	InputPointerMove = NewEvent[PointerEvent]("pointermove")
	InputPointerOver = NewEvent[PointerEvent]("pointerover")
	InputPointerOut  = NewEvent[PointerEvent]("pointerout")
	InputClick       = NewEvent[PointerEvent]("click")
	InputDragStart   = NewEvent[PointerEvent]("dragstart")
	InputDrag        = NewEvent[PointerEvent]("drag")
	InputDragEnd     = NewEvent[PointerEvent]("dragend")
	InputPinch       = NewEvent[PinchEvent]("pinch")
	InputWheel       = NewEvent[WheelEvent]("wheel")
)

// Lifecycle events for input sub-plugins, emitted on
// InputPlugin.PluginEvents().
var (
	InputPluginBoot      = NewEvent[*InputPlugin]("boot")
	InputPluginStart     = NewEvent[*InputPlugin]("start")
	InputPluginPreUpdate = NewEvent[Step]("preupdate")
	InputPluginUpdate    = NewEvent[float64]("update")
	InputPluginShutdown  = NewEvent[*InputPlugin]("shutdown")
	InputPluginDestroy   = NewEvent[*InputPlugin]("destroy")
)

type pointerState struct {
	down      bool
	startX    float64
	startY    float64
	lastX     float64
	lastY     float64
	hitNode   *Node
	hoverNode *Node
	dragging  bool
	button    MouseButton
}

type pinchState struct {
	active       bool
	pointer0     int
	pointer1     int
	initialDist  float64
	initialAngle float64
	prevDist     float64
	prevAngle    float64
}

// InputPlugin is the per-scene input system, injected as "input". It hit
// tests pointers against the scene's display list through the main camera
// and hosts the keyboard and gamepad sub-plugins.
type InputPlugin struct {
	ScenePluginBase
	manager      *InputManager
	events       *Emitter
	pluginEvents *Emitter
	plugins      map[string]InputSubPlugin

	// Enabled gates this scene's input. It follows the transition's
	// allow-input setting while the scene transitions.
	Enabled bool

	store        EntityStore
	dragDeadZone float64
	pointers     [maxPointers]pointerState
	captured     [maxPointers]*Node
	pinch        pinchState
	hitBuf       []*Node
}

func init() {
	DefaultPluginCache.Register("InputPlugin", func(scene *Scene, pm *PluginManager, key string) ScenePlugin {
		return newInputPlugin(scene, pm, key)
	}, "input", false)
}

func newInputPlugin(scene *Scene, pm *PluginManager, key string) *InputPlugin {
	ip := &InputPlugin{
		ScenePluginBase: NewScenePluginBase(scene, pm, key),
		events:          NewEmitter(),
		pluginEvents:    NewEmitter(),
		plugins:         make(map[string]InputSubPlugin),
		Enabled:         true,
		dragDeadZone:    defaultDragDeadZone,
	}
	On(ip.systems.events, SceneStart, ip, func(*Systems) { ip.start() })
	return ip
}

func (ip *InputPlugin) Boot() {
	if g := ip.systems.game; g != nil {
		ip.manager = g.input
		ip.dragDeadZone = g.config.Input.DragDeadZone
		g.config.InputPluginCache.Install(ip)
	}
	Emit(ip.pluginEvents, InputPluginBoot, ip)
	On(ip.systems.events, SceneDestroy, ip, func(*Systems) { ip.Destroy() })
}

func (ip *InputPlugin) start() {
	ev := ip.systems.events
	On(ev, ScenePreUpdate, ip, func(st Step) { Emit(ip.pluginEvents, InputPluginPreUpdate, st) })
	On(ev, SceneTransitionStart, ip, func(Transition) { ip.transitionIn() })
	On(ev, SceneTransitionOut, ip, func(Transition) { ip.transitionOut() })
	On(ev, SceneTransitionComplete, ip, func(Transition) { ip.transitionComplete() })
	Once(ev, SceneShutdown, ip, func(SceneData) { ip.shutdown() })
	if ip.manager != nil {
		On(ip.manager.events, InputGameOver, ip, func(t float64) {
			if ip.IsActive() {
				Emit(ip.events, InputGameOver, t)
			}
		})
		On(ip.manager.events, InputGameOut, ip, func(t float64) {
			if ip.IsActive() {
				Emit(ip.events, InputGameOut, t)
			}
		})
	}
	ip.Enabled = true
	Emit(ip.pluginEvents, InputPluginStart, ip)
}

// Events returns the emitter for pointer and window events.
func (ip *InputPlugin) Events() *Emitter { return ip.events }

// PluginEvents returns the emitter sub-plugins use to follow the input
// plugin's lifecycle.
func (ip *InputPlugin) PluginEvents() *Emitter { return ip.pluginEvents }

// Manager returns the game's input manager.
func (ip *InputPlugin) Manager() *InputManager { return ip.manager }

// Plugin returns the sub-plugin installed under mapping, or nil.
func (ip *InputPlugin) Plugin(mapping string) InputSubPlugin { return ip.plugins[mapping] }

// Keyboard returns the keyboard sub-plugin, or nil when keyboard input is
// disabled for the scene.
func (ip *InputPlugin) Keyboard() *KeyboardPlugin {
	kb, _ := ip.plugins["keyboard"].(*KeyboardPlugin)
	return kb
}

// Gamepad returns the gamepad sub-plugin, or nil.
func (ip *InputPlugin) Gamepad() *GamepadPlugin {
	gp, _ := ip.plugins["gamepad"].(*GamepadPlugin)
	return gp
}

// IsActive reports whether the scene should process input this step.
func (ip *InputPlugin) IsActive() bool {
	return ip.Enabled && ip.systems != nil && ip.manager != nil &&
		ip.manager.Enabled && ip.systems.CanInput()
}

// SetEntityStore forwards interaction events to store.
func (ip *InputPlugin) SetEntityStore(store EntityStore) { ip.store = store }

// SetDragDeadZone sets the distance a pointer must travel before a drag
// starts.
func (ip *InputPlugin) SetDragDeadZone(pixels float64) { ip.dragDeadZone = pixels }

// SetInteractive makes n hit-testable with shape (nil uses its size), and
// marks its ancestors interactive so the hit test reaches it.
func (ip *InputPlugin) SetInteractive(n *Node, shape HitShape) {
	if n == nil {
		return
	}
	n.HitShape = shape
	for p := n; p != nil; p = p.Parent {
		p.Interactable = true
	}
}

// RemoveInteractive stops n receiving pointer events and releases any
// pointer state that refers to it.
func (ip *InputPlugin) RemoveInteractive(n *Node) {
	if n == nil {
		return
	}
	n.Interactable = false
	n.Draggable = false
	for i := range ip.pointers {
		ps := &ip.pointers[i]
		if ps.hitNode == n {
			ps.hitNode = nil
			ps.dragging = false
		}
		if ps.hoverNode == n {
			ps.hoverNode = nil
		}
		if ip.captured[i] == n {
			ip.captured[i] = nil
		}
	}
}

// SetDraggable makes n interactive and lets it receive drag events.
func (ip *InputPlugin) SetDraggable(n *Node, draggable bool) {
	if n == nil {
		return
	}
	if draggable && !n.Interactable {
		ip.SetInteractive(n, n.HitShape)
	}
	n.Draggable = draggable
}

// CapturePointer routes every event of pointerID to node until release.
func (ip *InputPlugin) CapturePointer(pointerID int, node *Node) {
	if pointerID >= 0 && pointerID < maxPointers {
		ip.captured[pointerID] = node
	}
}

// ReleasePointer ends a capture.
func (ip *InputPlugin) ReleasePointer(pointerID int) {
	if pointerID >= 0 && pointerID < maxPointers {
		ip.captured[pointerID] = nil
	}
}

// HitTestPointer returns the top interactive node under the screen point,
// or nil.
func (ip *InputPlugin) HitTestPointer(sx, sy float64) *Node {
	ip.refreshTransforms()
	wx, wy := ip.screenToWorld(sx, sy)
	return ip.hitTest(wx, wy)
}

func (ip *InputPlugin) transitionIn() {
	ip.Enabled = ip.systems.settings.TransitionAllowInput
}

func (ip *InputPlugin) transitionOut() {
	ip.Enabled = ip.systems.settings.TransitionAllowInput
}

func (ip *InputPlugin) transitionComplete() {
	if !ip.systems.settings.TransitionAllowInput {
		ip.Enabled = true
	}
}

// managerUpdate runs once per step for every running scene, before pointer
// processing.
func (ip *InputPlugin) managerUpdate(t float64) {
	if !ip.IsActive() {
		return
	}
	Emit(ip.pluginEvents, InputPluginUpdate, t)
}

// --- Hit testing ---

func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	w, h := n.Size()
	if w == 0 && h == 0 {
		return false
	}
	return lx >= 0 && lx <= w && ly >= 0 && ly <= h
}

// collectInteractable walks the tree in draw order, skipping hidden or
// non-interactive subtrees.
func collectInteractable(n *Node, buf []*Node) []*Node {
	if !n.Visible || !n.Interactable {
		return buf
	}
	if n.HitShape != nil || n.Type != NodeTypeContainer {
		buf = append(buf, n)
	}
	for _, child := range n.sortedChildList() {
		buf = collectInteractable(child, buf)
	}
	return buf
}

func (ip *InputPlugin) hitTest(wx, wy float64) *Node {
	dl := ip.systems.DisplayList()
	if dl == nil {
		return nil
	}
	ip.hitBuf = collectInteractable(dl.root, ip.hitBuf[:0])
	for i := len(ip.hitBuf) - 1; i >= 0; i-- {
		n := ip.hitBuf[i]
		lx, ly := n.WorldToLocal(wx, wy)
		if nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}

func (ip *InputPlugin) refreshTransforms() {
	if dl := ip.systems.DisplayList(); dl != nil {
		dl.updateTransforms()
	}
}

func (ip *InputPlugin) screenToWorld(sx, sy float64) (float64, float64) {
	if cams := ip.systems.Cameras(); cams != nil && cams.Main != nil {
		return cams.Main.ScreenToWorld(sx, sy)
	}
	return sx, sy
}

// --- Pointer processing ---

// processPointers runs every active pointer through the state machine and
// reports whether any of them is over an interactive node.
func (ip *InputPlugin) processPointers(ptrs *[maxPointers]PointerSnapshot, mods KeyModifiers) bool {
	ip.refreshTransforms()
	hit := false
	for i := range ptrs {
		p := ptrs[i]
		if !p.Active {
			continue
		}
		wx, wy := ip.screenToWorld(p.X, p.Y)
		if ip.processPointer(i, wx, wy, p.X, p.Y, p.Down, p.Button, mods) != nil {
			hit = true
		}
	}
	ip.detectPinch()
	if m := ip.manager; m != nil && (m.wheelX != 0 || m.wheelY != 0) {
		wx, wy := ip.screenToWorld(ptrs[0].X, ptrs[0].Y)
		Emit(ip.events, InputWheel, WheelEvent{GlobalX: wx, GlobalY: wy, DeltaX: m.wheelX, DeltaY: m.wheelY})
	}
	return hit
}

// processPointer advances one pointer and returns the node under it.
func (ip *InputPlugin) processPointer(id int, wx, wy, sx, sy float64, pressed bool, button MouseButton, mods KeyModifiers) *Node {
	ps := &ip.pointers[id]

	target := ip.captured[id]
	if target == nil {
		target = ip.hitTest(wx, wy)
	}
	ev := PointerEvent{
		GlobalX: wx, GlobalY: wy, ScreenX: sx, ScreenY: sy,
		Button: button, PointerID: id, Modifiers: mods,
	}

	if target != ps.hoverNode {
		if ps.hoverNode != nil {
			ip.fire(EventPointerLeave, ps.hoverNode, ev)
		}
		if target != nil {
			ip.fire(EventPointerEnter, target, ev)
		}
		ps.hoverNode = target
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = wx, wy
		ps.lastX, ps.lastY = wx, wy
		ps.hitNode = target
		ps.dragging = false
		ip.fire(EventPointerDown, target, ev)

	case !pressed && ps.down:
		ev.Button = ps.button
		if ps.dragging {
			ev.StartX, ev.StartY = ps.startX, ps.startY
			ev.DeltaX, ev.DeltaY = wx-ps.lastX, wy-ps.lastY
			ip.fire(EventDragEnd, ps.hitNode, ev)
			ev.StartX, ev.StartY, ev.DeltaX, ev.DeltaY = 0, 0, 0, 0
		} else if ps.hitNode != nil && ps.hitNode == target {
			ip.fire(EventClick, target, ev)
		}
		ip.fire(EventPointerUp, target, ev)
		ip.captured[id] = nil
		ps.down = false
		ps.hitNode = nil
		ps.dragging = false
		ps.lastX, ps.lastY = wx, wy

	case pressed && ps.down:
		ev.Button = ps.button
		if wx == ps.lastX && wy == ps.lastY {
			break
		}
		canDrag := ps.hitNode == nil || ps.hitNode.Draggable
		if canDrag && !ps.dragging && math.Hypot(wx-ps.startX, wy-ps.startY) > ip.dragDeadZone {
			ps.dragging = true
			ev.StartX, ev.StartY = ps.startX, ps.startY
			ev.DeltaX, ev.DeltaY = wx-ps.startX, wy-ps.startY
			ip.fire(EventDragStart, ps.hitNode, ev)
		}
		if ps.dragging {
			ev.StartX, ev.StartY = ps.startX, ps.startY
			ev.DeltaX, ev.DeltaY = wx-ps.lastX, wy-ps.lastY
			ip.fire(EventDrag, ps.hitNode, ev)
		} else {
			ip.fire(EventPointerMove, target, ev)
		}
		ps.lastX, ps.lastY = wx, wy

	default:
		if wx != ps.lastX || wy != ps.lastY {
			ip.fire(EventPointerMove, target, ev)
			ps.lastX, ps.lastY = wx, wy
		}
	}
	return target
}

func (ip *InputPlugin) detectPinch() {
	var p0, p1, count int
	for i := 1; i < maxPointers; i++ {
		if ip.pointers[i].down {
			switch count {
			case 0:
				p0 = i
			case 1:
				p1 = i
			}
			count++
		}
	}
	if count != 2 {
		ip.pinch.active = false
		return
	}

	ps0, ps1 := &ip.pointers[p0], &ip.pointers[p1]
	dx := ps1.lastX - ps0.lastX
	dy := ps1.lastY - ps0.lastY
	dist := math.Hypot(dx, dy)
	angle := math.Atan2(dy, dx)

	if !ip.pinch.active {
		ip.pinch = pinchState{
			active: true, pointer0: p0, pointer1: p1,
			initialDist: dist, initialAngle: angle,
			prevDist: dist, prevAngle: angle,
		}
	} else {
		ev := PinchEvent{
			CenterX:  (ps0.lastX + ps1.lastX) / 2,
			CenterY:  (ps0.lastY + ps1.lastY) / 2,
			Scale:    1,
			Rotation: angle - ip.pinch.initialAngle,
			RotDelta: angle - ip.pinch.prevAngle,
		}
		if ip.pinch.initialDist > 0 {
			ev.Scale = dist / ip.pinch.initialDist
		}
		if ip.pinch.prevDist > 0 {
			ev.ScaleDelta = dist/ip.pinch.prevDist - 1
		}
		ip.firePinch(ev, ps0.hitNode)
		ip.pinch.prevDist = dist
		ip.pinch.prevAngle = angle
	}
	// The two pinch pointers never drag.
	ps0.dragging = false
	ps1.dragging = false
}

// --- Dispatch ---

var pointerEvents = map[EventType]Event[PointerEvent]{
	EventPointerDown:  InputPointerDown,
	EventPointerUp:    InputPointerUp,
	EventPointerMove:  InputPointerMove,
	EventPointerEnter: InputPointerOver,
	EventPointerLeave: InputPointerOut,
	EventClick:        InputClick,
	EventDragStart:    InputDragStart,
	EventDrag:         InputDrag,
	EventDragEnd:      InputDragEnd,
}

func nodeCallback(n *Node, kind EventType) func(PointerEvent) {
	switch kind {
	case EventPointerDown:
		return n.OnPointerDown
	case EventPointerUp:
		return n.OnPointerUp
	case EventPointerMove:
		return n.OnPointerMove
	case EventPointerEnter:
		return n.OnPointerEnter
	case EventPointerLeave:
		return n.OnPointerLeave
	case EventClick:
		return n.OnClick
	case EventDragStart:
		return n.OnDragStart
	case EventDrag:
		return n.OnDrag
	case EventDragEnd:
		return n.OnDragEnd
	}
	return nil
}

// fire delivers ev to scene listeners, then to node's callback, then to the
// entity store.
func (ip *InputPlugin) fire(kind EventType, node *Node, ev PointerEvent) {
	ev.Node = node
	if node != nil {
		ev.LocalX, ev.LocalY = node.WorldToLocal(ev.GlobalX, ev.GlobalY)
		ev.EntityID = node.EntityID
		ev.UserData = node.UserData
	}
	Emit(ip.events, pointerEvents[kind], ev)
	if node != nil {
		if fn := nodeCallback(node, kind); fn != nil {
			fn(ev)
		}
	}
	if ip.store != nil && node != nil && node.EntityID != 0 {
		ip.store.EmitEvent(InteractionEvent{
			Type:      kind,
			EntityID:  node.EntityID,
			GlobalX:   ev.GlobalX,
			GlobalY:   ev.GlobalY,
			LocalX:    ev.LocalX,
			LocalY:    ev.LocalY,
			Button:    ev.Button,
			Modifiers: ev.Modifiers,
			StartX:    ev.StartX,
			StartY:    ev.StartY,
			DeltaX:    ev.DeltaX,
			DeltaY:    ev.DeltaY,
		})
	}
}

func (ip *InputPlugin) firePinch(ev PinchEvent, node *Node) {
	Emit(ip.events, InputPinch, ev)
	if node != nil && node.OnPinch != nil {
		node.OnPinch(ev)
	}
	// Pinch is a scene gesture: the store hears it even without a node.
	if ip.store == nil {
		return
	}
	var id uint32
	if node != nil {
		id = node.EntityID
	}
	ip.store.EmitEvent(InteractionEvent{
		Type:       EventPinch,
		EntityID:   id,
		GlobalX:    ev.CenterX,
		GlobalY:    ev.CenterY,
		Scale:      ev.Scale,
		ScaleDelta: ev.ScaleDelta,
		Rotation:   ev.Rotation,
		RotDelta:   ev.RotDelta,
	})
}

// --- Lifecycle ---

func (ip *InputPlugin) resetPointers() {
	ip.pointers = [maxPointers]pointerState{}
	ip.captured = [maxPointers]*Node{}
	ip.pinch = pinchState{}
	ip.hitBuf = ip.hitBuf[:0]
}

func (ip *InputPlugin) shutdown() {
	Emit(ip.pluginEvents, InputPluginShutdown, ip)
	ev := ip.systems.events
	ev.Off(ScenePreUpdate.Name, ip)
	ev.Off(SceneTransitionStart.Name, ip)
	ev.Off(SceneTransitionOut.Name, ip)
	ev.Off(SceneTransitionComplete.Name, ip)
	ev.Off(SceneShutdown.Name, ip)
	if ip.manager != nil {
		ip.manager.events.RemoveOwner(ip)
	}
	ip.resetPointers()
}

// Destroy shuts the plugin down and destroys its sub-plugins.
func (ip *InputPlugin) Destroy() {
	if ip.systems == nil {
		return
	}
	ip.shutdown()
	Emit(ip.pluginEvents, InputPluginDestroy, ip)
	ip.pluginEvents.RemoveAllListeners()
	ip.events.RemoveAllListeners()
	ip.systems.events.RemoveOwner(ip)
	ip.plugins = nil
	ip.store = nil
	ip.manager = nil
	ip.ScenePluginBase.Destroy()
}
