package aspen

import "slices"

// TweenManager is the scene plugin running a scene's tweens, injected as
// "tweens". Tweens added during an update start on the next one.
type TweenManager struct {
	ScenePluginBase

	// TimeScale multiplies the scene delta for every tween.
	TimeScale float64
	Paused    bool

	active  []*Tween
	pending []*Tween
}

func init() {
	DefaultPluginCache.Register("TweenManager", func(scene *Scene, pm *PluginManager, key string) ScenePlugin {
		return newTweenManager(scene, pm, key)
	}, "tweens", false)
}

func newTweenManager(scene *Scene, pm *PluginManager, key string) *TweenManager {
	tm := &TweenManager{ScenePluginBase: NewScenePluginBase(scene, pm, key), TimeScale: 1}
	On(tm.systems.events, SceneStart, tm, func(*Systems) { tm.start() })
	return tm
}

func (tm *TweenManager) Boot() {
	On(tm.systems.events, SceneDestroy, tm, func(*Systems) { tm.Destroy() })
}

func (tm *TweenManager) start() {
	ev := tm.systems.events
	On(ev, ScenePreUpdate, tm, func(Step) { tm.preUpdate() })
	On(ev, SceneUpdate, tm, func(st Step) { tm.update(st.Delta) })
	Once(ev, SceneShutdown, tm, func(SceneData) { tm.shutdown() })
}

// Add queues t to start on the next update.
func (tm *TweenManager) Add(t *Tween) *Tween {
	if t == nil || slices.Contains(tm.active, t) || slices.Contains(tm.pending, t) {
		return t
	}
	tm.pending = append(tm.pending, t)
	return t
}

// Counter adds a counter tween.
func (tm *TweenManager) Counter(from, to float64, cfg TweenConfig) *Tween {
	return tm.Add(NewCounter(from, to, cfg))
}

// Position adds a position tween of node.
func (tm *TweenManager) Position(node *Node, x, y float64, cfg TweenConfig) *Tween {
	return tm.Add(TweenPosition(node, x, y, cfg))
}

// Scale adds a scale tween of node.
func (tm *TweenManager) Scale(node *Node, sx, sy float64, cfg TweenConfig) *Tween {
	return tm.Add(TweenScale(node, sx, sy, cfg))
}

// Alpha adds an alpha tween of node.
func (tm *TweenManager) Alpha(node *Node, alpha float64, cfg TweenConfig) *Tween {
	return tm.Add(TweenAlpha(node, alpha, cfg))
}

// Rotation adds a rotation tween of node.
func (tm *TweenManager) Rotation(node *Node, rotation float64, cfg TweenConfig) *Tween {
	return tm.Add(TweenRotation(node, rotation, cfg))
}

// Color adds a color tween of node.
func (tm *TweenManager) Color(node *Node, to Color, cfg TweenConfig) *Tween {
	return tm.Add(TweenColor(node, to, cfg))
}

// GetTweensOf returns the running and queued tweens targeting node.
func (tm *TweenManager) GetTweensOf(node *Node) []*Tween {
	var out []*Tween
	for _, t := range slices.Concat(tm.active, tm.pending) {
		if t.target == node && !t.IsFinished() {
			out = append(out, t)
		}
	}
	return out
}

// IsTweening reports whether any live tween targets node.
func (tm *TweenManager) IsTweening(node *Node) bool {
	return len(tm.GetTweensOf(node)) > 0
}

// KillTweensOf stops every tween targeting node.
func (tm *TweenManager) KillTweensOf(node *Node) {
	for _, t := range tm.GetTweensOf(node) {
		t.Stop()
	}
}

// KillAll stops every tween.
func (tm *TweenManager) KillAll() {
	for _, t := range slices.Concat(tm.active, tm.pending) {
		t.Stop()
	}
}

// PauseAll pauses the manager; tweens keep their own pause state.
func (tm *TweenManager) PauseAll() { tm.Paused = true }

// ResumeAll resumes the manager.
func (tm *TweenManager) ResumeAll() { tm.Paused = false }

// Len returns the number of live tweens, running or queued.
func (tm *TweenManager) Len() int {
	n := 0
	for _, t := range slices.Concat(tm.active, tm.pending) {
		if !t.IsFinished() {
			n++
		}
	}
	return n
}

func (tm *TweenManager) preUpdate() {
	tm.active = slices.DeleteFunc(tm.active, (*Tween).IsFinished)
	if len(tm.pending) > 0 {
		tm.active = append(tm.active, tm.pending...)
		tm.pending = tm.pending[:0]
	}
}

func (tm *TweenManager) update(delta float64) {
	if tm.Paused {
		return
	}
	delta *= tm.TimeScale
	for _, t := range tm.active {
		t.Update(delta)
	}
}

func (tm *TweenManager) shutdown() {
	ev := tm.systems.events
	ev.Off(ScenePreUpdate.Name, tm)
	ev.Off(SceneUpdate.Name, tm)
	ev.Off(SceneShutdown.Name, tm)
	tm.KillAll()
	tm.active = nil
	tm.pending = nil
}

// Destroy kills every tween and releases the manager.
func (tm *TweenManager) Destroy() {
	if tm.systems == nil {
		return
	}
	tm.shutdown()
	tm.systems.events.RemoveOwner(tm)
	tm.ScenePluginBase.Destroy()
}
