package aspen

import "slices"

// Clock is the per-scene timer plugin, injected as "time". Its time advances
// only while the scene updates; paused or sleeping scenes freeze their timers.
type Clock struct {
	ScenePluginBase

	now       float64
	startTime float64
	// TimeScale multiplies every delta. 0.5 runs timers at half speed.
	TimeScale float64
	// Paused stops every timer.
	Paused bool

	active           []*TimerEvent
	pendingInsertion []*TimerEvent
	pendingRemoval   []*TimerEvent
}

func init() {
	DefaultPluginCache.Register("Clock", func(scene *Scene, pm *PluginManager, key string) ScenePlugin {
		return newClock(scene, pm, key)
	}, "time", false)
}

func newClock(scene *Scene, pm *PluginManager, key string) *Clock {
	c := &Clock{ScenePluginBase: NewScenePluginBase(scene, pm, key), TimeScale: 1}
	On(c.systems.events, SceneStart, c, func(*Systems) { c.start() })
	return c
}

func (c *Clock) Boot() {
	if g := c.systems.game; g != nil {
		c.now = g.loop.Time()
	}
	On(c.systems.events, SceneDestroy, c, func(*Systems) { c.Destroy() })
}

func (c *Clock) start() {
	if g := c.systems.game; g != nil {
		c.startTime = g.loop.Time()
	}
	ev := c.systems.events
	On(ev, ScenePreUpdate, c, func(Step) { c.preUpdate() })
	On(ev, SceneUpdate, c, func(st Step) { c.update(st.Time, st.Delta) })
	Once(ev, SceneShutdown, c, func(SceneData) { c.shutdown() })
}

// Now returns the scene time at the last update, in ms.
func (c *Clock) Now() float64 { return c.now }

// StartTime returns the game time the scene last started at.
func (c *Clock) StartTime() float64 { return c.startTime }

// AddEvent creates a timer from cfg. It begins counting on the next update.
func (c *Clock) AddEvent(cfg TimerConfig) (*TimerEvent, error) {
	e, err := NewTimerEvent(cfg)
	if err != nil {
		return nil, err
	}
	c.pendingInsertion = append(c.pendingInsertion, e)
	return e, nil
}

// AddTimer schedules an existing timer, rewinding it first.
func (c *Clock) AddTimer(e *TimerEvent) *TimerEvent {
	e.elapsed = e.startAt
	e.hasDispatched = false
	e.repeatCount = e.repeat
	c.pendingInsertion = append(c.pendingInsertion, e)
	return e
}

// DelayedCall runs fn once after delay ms.
func (c *Clock) DelayedCall(delay float64, fn func()) *TimerEvent {
	e, _ := c.AddEvent(TimerConfig{Delay: delay, Callback: fn})
	return e
}

// ClearPendingEvents drops timers added since the last update.
func (c *Clock) ClearPendingEvents() *Clock {
	c.pendingInsertion = nil
	return c
}

// RemoveEvent removes timers from the clock immediately without dispatching
// them.
func (c *Clock) RemoveEvent(events ...*TimerEvent) *Clock {
	for _, e := range events {
		match := func(x *TimerEvent) bool { return x == e }
		c.pendingInsertion = slices.DeleteFunc(c.pendingInsertion, match)
		c.pendingRemoval = slices.DeleteFunc(c.pendingRemoval, match)
		c.active = slices.DeleteFunc(c.active, match)
	}
	return c
}

// RemoveAllEvents schedules every active timer for removal on the next update.
func (c *Clock) RemoveAllEvents() *Clock {
	c.pendingRemoval = append(c.pendingRemoval, c.active...)
	return c
}

// Len returns the number of active timers.
func (c *Clock) Len() int { return len(c.active) }

func (c *Clock) preUpdate() {
	if len(c.pendingRemoval) == 0 && len(c.pendingInsertion) == 0 {
		return
	}
	for _, e := range c.pendingRemoval {
		if i := slices.Index(c.active, e); i >= 0 {
			c.active = slices.Delete(c.active, i, i+1)
		}
		e.destroy()
	}
	c.active = append(c.active, c.pendingInsertion...)
	c.pendingRemoval = nil
	c.pendingInsertion = nil
}

func (c *Clock) update(time, delta float64) {
	c.now = time
	if c.Paused {
		return
	}
	delta *= c.TimeScale

	// callbacks may remove timers
	for _, e := range slices.Clone(c.active) {
		if e.Paused {
			continue
		}
		e.elapsed += delta * e.TimeScale
		if e.elapsed < e.delay {
			continue
		}
		remainder := e.elapsed - e.delay
		e.elapsed = e.delay

		if !e.hasDispatched {
			e.hasDispatched = true
			c.dispatch(e)
		}

		if e.repeatCount > 0 {
			e.repeatCount--
			// catch up on iterations shorter than the frame
			for remainder >= e.delay && e.repeatCount > 0 {
				c.dispatch(e)
				remainder -= e.delay
				e.repeatCount--
			}
			e.elapsed = remainder
			e.hasDispatched = false
		} else if e.hasDispatched {
			c.pendingRemoval = append(c.pendingRemoval, e)
		}
	}
}

func (c *Clock) dispatch(e *TimerEvent) {
	if e.callback == nil {
		return
	}
	e.callback()
	if c.pluginManager == nil {
		return
	}
	if m, ok := c.pluginManager.Get(MetricsPluginKey, false).(*MetricsPlugin); ok {
		m.observeTimer()
	}
}

func (c *Clock) shutdown() {
	ev := c.systems.events
	ev.Off(ScenePreUpdate.Name, c)
	ev.Off(SceneUpdate.Name, c)
	ev.Off(SceneShutdown.Name, c)

	for _, e := range c.active {
		e.destroy()
	}
	for _, e := range c.pendingInsertion {
		e.destroy()
	}
	for _, e := range c.pendingRemoval {
		e.destroy()
	}
	c.active = nil
	c.pendingInsertion = nil
	c.pendingRemoval = nil
}

// Destroy clears every timer and releases the clock.
func (c *Clock) Destroy() {
	if c.systems == nil {
		return
	}
	c.shutdown()
	c.systems.events.RemoveOwner(c)
	c.ScenePluginBase.Destroy()
}
