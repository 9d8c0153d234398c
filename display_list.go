package aspen

// DisplayList is the scene plugin holding the nodes a scene renders,
// injected as "children". Nodes added to it belong to the scene until they
// are removed.
type DisplayList struct {
	ScenePluginBase
	root       *Node
	sortQueued bool
}

func init() {
	DefaultPluginCache.Register("DisplayList", func(scene *Scene, pm *PluginManager, key string) ScenePlugin {
		return newDisplayList(scene, pm, key)
	}, "displayList", false)
}

func newDisplayList(scene *Scene, pm *PluginManager, key string) *DisplayList {
	dl := &DisplayList{ScenePluginBase: NewScenePluginBase(scene, pm, key)}
	dl.root = NewContainer("root")
	dl.root.Interactable = true
	dl.root.scene = scene
	On(dl.systems.events, SceneStart, dl, func(*Systems) { dl.start() })
	return dl
}

func (dl *DisplayList) Boot() {
	On(dl.systems.events, SceneDestroy, dl, func(*Systems) { dl.Destroy() })
}

func (dl *DisplayList) start() {
	Once(dl.systems.events, SceneShutdown, dl, func(SceneData) { dl.shutdown() })
}

// Root returns the root container. Its children are the scene's top-level
// nodes.
func (dl *DisplayList) Root() *Node { return dl.root }

// Add appends nodes to the root and emits ADDED_TO_SCENE for each.
func (dl *DisplayList) Add(nodes ...*Node) *DisplayList {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		dl.root.AddChild(n)
		dl.sortQueued = true
		Emit(dl.systems.events, SceneAddedToScene, n)
	}
	return dl
}

// AddAt inserts n at index among the root's children.
func (dl *DisplayList) AddAt(n *Node, index int) *DisplayList {
	dl.root.AddChildAt(n, index)
	dl.sortQueued = true
	Emit(dl.systems.events, SceneAddedToScene, n)
	return dl
}

// Remove detaches top-level nodes and emits REMOVED_FROM_SCENE for each.
// Nodes that are not top-level nodes of this list are ignored.
func (dl *DisplayList) Remove(nodes ...*Node) *DisplayList {
	for _, n := range nodes {
		if n == nil || n.Parent != dl.root {
			continue
		}
		dl.root.RemoveChild(n)
		Emit(dl.systems.events, SceneRemovedFromScene, n)
	}
	return dl
}

// Exists reports whether n is a top-level node of the list.
func (dl *DisplayList) Exists(n *Node) bool { return n != nil && n.Parent == dl.root }

// List returns the top-level nodes in insertion order.
func (dl *DisplayList) List() []*Node { return dl.root.children }

// Len returns the number of top-level nodes.
func (dl *DisplayList) Len() int { return len(dl.root.children) }

// GetByName returns the first node named name in depth-first order.
func (dl *DisplayList) GetByName(name string) *Node {
	var walk func(n *Node) *Node
	walk = func(n *Node) *Node {
		for _, c := range n.children {
			if c.Name == name {
				return c
			}
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(dl.root)
}

// QueueDepthSort sorts the list before the next render.
func (dl *DisplayList) QueueDepthSort() { dl.sortQueued = true }

// DepthSort sorts every container whose children changed depth, if a sort
// was queued.
func (dl *DisplayList) DepthSort() {
	if !dl.sortQueued {
		return
	}
	sortTree(dl.root)
	dl.sortQueued = false
}

func sortTree(n *Node) {
	for _, c := range n.sortedChildList() {
		sortTree(c)
	}
}

// updateTransforms refreshes world transforms for the whole list.
func (dl *DisplayList) updateTransforms() {
	updateWorld(dl.root, identityAffine, 1, false)
}

// shutdown disposes every node; the list is reused on restart.
func (dl *DisplayList) shutdown() {
	dl.systems.events.Off(SceneShutdown.Name, dl)
	for len(dl.root.children) > 0 {
		n := dl.root.children[len(dl.root.children)-1]
		dl.root.RemoveChild(n)
		Emit(dl.systems.events, SceneRemovedFromScene, n)
		n.Dispose()
	}
}

// Destroy disposes every node and releases the list.
func (dl *DisplayList) Destroy() {
	if dl.systems == nil {
		return
	}
	dl.shutdown()
	dl.systems.events.RemoveOwner(dl)
	dl.root.Dispose()
	dl.ScenePluginBase.Destroy()
}
