package aspen

import "slices"

// UpdateList is the scene plugin that runs OnPreUpdate on its nodes every
// scene update. Additions and removals take effect at the start of the next
// update.
type UpdateList struct {
	ScenePluginBase
	active  []*Node
	pending []*Node
	destroy []*Node
}

func init() {
	DefaultPluginCache.Register("UpdateList", func(scene *Scene, pm *PluginManager, key string) ScenePlugin {
		return newUpdateList(scene, pm, key)
	}, "updateList", false)
}

func newUpdateList(scene *Scene, pm *PluginManager, key string) *UpdateList {
	ul := &UpdateList{ScenePluginBase: NewScenePluginBase(scene, pm, key)}
	On(ul.systems.events, SceneStart, ul, func(*Systems) { ul.start() })
	return ul
}

func (ul *UpdateList) Boot() {
	On(ul.systems.events, SceneDestroy, ul, func(*Systems) { ul.Destroy() })
}

func (ul *UpdateList) start() {
	ev := ul.systems.events
	On(ev, ScenePreUpdate, ul, func(Step) { ul.update() })
	On(ev, SceneUpdate, ul, func(st Step) { ul.sceneUpdate(st.Time, st.Delta) })
	Once(ev, SceneShutdown, ul, func(SceneData) { ul.shutdown() })
}

// Add queues n for updates from the next frame.
func (ul *UpdateList) Add(n *Node) *UpdateList {
	if n == nil || slices.Contains(ul.active, n) || slices.Contains(ul.pending, n) {
		return ul
	}
	ul.destroy = slices.DeleteFunc(ul.destroy, func(x *Node) bool { return x == n })
	ul.pending = append(ul.pending, n)
	return ul
}

// Remove stops updating n from the next frame.
func (ul *UpdateList) Remove(n *Node) *UpdateList {
	if i := slices.Index(ul.pending, n); i >= 0 {
		ul.pending = slices.Delete(ul.pending, i, i+1)
		return ul
	}
	if slices.Contains(ul.active, n) && !slices.Contains(ul.destroy, n) {
		ul.destroy = append(ul.destroy, n)
	}
	return ul
}

// Exists reports whether n is active or pending.
func (ul *UpdateList) Exists(n *Node) bool {
	return slices.Contains(ul.active, n) || slices.Contains(ul.pending, n)
}

// Len returns the number of active nodes.
func (ul *UpdateList) Len() int { return len(ul.active) }

// update applies queued additions and removals.
func (ul *UpdateList) update() {
	if len(ul.destroy) > 0 {
		ul.active = slices.DeleteFunc(ul.active, func(x *Node) bool { return slices.Contains(ul.destroy, x) })
		ul.destroy = ul.destroy[:0]
	}
	if len(ul.pending) > 0 {
		ul.active = append(ul.active, ul.pending...)
		ul.pending = ul.pending[:0]
	}
}

func (ul *UpdateList) sceneUpdate(time, delta float64) {
	for _, n := range ul.active {
		if n.disposed {
			ul.Remove(n)
			continue
		}
		if n.OnPreUpdate != nil {
			n.OnPreUpdate(time, delta)
		}
	}
}

func (ul *UpdateList) shutdown() {
	ev := ul.systems.events
	ev.Off(ScenePreUpdate.Name, ul)
	ev.Off(SceneUpdate.Name, ul)
	ev.Off(SceneShutdown.Name, ul)
	ul.active = nil
	ul.pending = nil
	ul.destroy = nil
}

// Destroy releases the list.
func (ul *UpdateList) Destroy() {
	if ul.systems == nil {
		return
	}
	ul.shutdown()
	ul.systems.events.RemoveOwner(ul)
	ul.ScenePluginBase.Destroy()
}
