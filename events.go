package aspen

import (
	"fmt"
	"sort"
)

// Event names a signal and fixes the payload type its listeners receive.
// Two events with the same name on one Emitter must share a payload type.
type Event[T any] struct {
	Name string
}

// NewEvent returns an event descriptor with the given name.
func NewEvent[T any](name string) Event[T] {
	return Event[T]{Name: name}
}

type listener struct {
	id      uint32
	owner   any
	once    bool
	removed bool
	fn      any // func(T)
}

// Emitter dispatches typed events to registered listeners. It is not safe for
// concurrent use; all emission happens on the game thread.
type Emitter struct {
	listeners map[string][]*listener
	nextID    uint32
}

// NewEmitter creates an empty Emitter.
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[string][]*listener)}
}

// Listener identifies a single registration and can remove it.
type Listener struct {
	id   uint32
	name string
	em   *Emitter
}

// Remove unregisters the listener. Safe to call more than once.
func (l Listener) Remove() {
	if l.em == nil {
		return
	}
	l.em.removeID(l.name, l.id)
}

func (em *Emitter) add(name string, owner any, once bool, fn any) Listener {
	if em.listeners == nil {
		em.listeners = make(map[string][]*listener)
	}
	em.nextID++
	l := &listener{id: em.nextID, owner: owner, once: once, fn: fn}
	em.listeners[name] = append(em.listeners[name], l)
	return Listener{id: l.id, name: name, em: em}
}

// On registers fn for ev. The owner groups listeners so Off can remove them
// together; it must be a comparable value (usually a pointer) or nil.
func On[T any](em *Emitter, ev Event[T], owner any, fn func(T)) Listener {
	return em.add(ev.Name, owner, false, fn)
}

// Once registers fn for a single emission of ev.
func Once[T any](em *Emitter, ev Event[T], owner any, fn func(T)) Listener {
	return em.add(ev.Name, owner, true, fn)
}

// Emit calls every listener registered for ev with payload. Listeners added
// during emission fire from the next emit; listeners removed during emission
// do not fire. Returns true if any listener was registered.
func Emit[T any](em *Emitter, ev Event[T], payload T) bool {
	if em == nil {
		return false
	}
	ls := em.listeners[ev.Name]
	if len(ls) == 0 {
		return false
	}
	snapshot := make([]*listener, len(ls))
	copy(snapshot, ls)
	for _, l := range snapshot {
		if l.removed {
			continue
		}
		if l.once {
			em.removeID(ev.Name, l.id)
		}
		fn, ok := l.fn.(func(T))
		if !ok {
			panic(fmt.Sprintf("aspen: event %q emitted with mismatched payload type %T", ev.Name, payload))
		}
		fn(payload)
	}
	return true
}

// Off removes listeners for the named event. A nil owner removes every
// listener for the event; otherwise only listeners registered with owner.
func (em *Emitter) Off(name string, owner any) {
	ls := em.listeners[name]
	if len(ls) == 0 {
		return
	}
	kept := ls[:0]
	for _, l := range ls {
		if owner == nil || l.owner == owner {
			l.removed = true
			continue
		}
		kept = append(kept, l)
	}
	em.setList(name, kept)
}

// RemoveListener removes a single registration returned by On or Once.
func (em *Emitter) RemoveListener(l Listener) {
	if l.em != em {
		return
	}
	em.removeID(l.name, l.id)
}

// RemoveOwner removes every listener registered with owner across all events.
func (em *Emitter) RemoveOwner(owner any) {
	if owner == nil {
		return
	}
	for name := range em.listeners {
		em.Off(name, owner)
	}
}

// RemoveAllListeners removes all listeners for the given event names, or for
// every event when no names are given.
func (em *Emitter) RemoveAllListeners(names ...string) {
	if len(names) == 0 {
		for _, ls := range em.listeners {
			for _, l := range ls {
				l.removed = true
			}
		}
		em.listeners = make(map[string][]*listener)
		return
	}
	for _, name := range names {
		em.Off(name, nil)
	}
}

// ListenerCount returns the number of listeners registered for name.
func (em *Emitter) ListenerCount(name string) int {
	if em == nil {
		return 0
	}
	return len(em.listeners[name])
}

// EventNames returns the sorted names of events that have listeners.
func (em *Emitter) EventNames() []string {
	names := make([]string, 0, len(em.listeners))
	for name, ls := range em.listeners {
		if len(ls) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (em *Emitter) removeID(name string, id uint32) {
	ls := em.listeners[name]
	for i, l := range ls {
		if l.id == id {
			l.removed = true
			kept := make([]*listener, 0, len(ls)-1)
			kept = append(kept, ls[:i]...)
			kept = append(kept, ls[i+1:]...)
			em.setList(name, kept)
			return
		}
	}
}

func (em *Emitter) setList(name string, ls []*listener) {
	if len(ls) == 0 {
		delete(em.listeners, name)
		return
	}
	em.listeners[name] = ls
}
