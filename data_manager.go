package aspen

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// DataEvent is the payload of every DataManager event.
type DataEvent struct {
	Parent   any
	Key      string
	Value    any
	Previous any
}

var (
	DataSet    = NewEvent[DataEvent]("setdata")
	DataChange = NewEvent[DataEvent]("changedata")
	DataRemove = NewEvent[DataEvent]("removedata")
)

// DataChangeKey returns the event emitted when the value under key changes.
func DataChangeKey(key string) Event[DataEvent] {
	return NewEvent[DataEvent]("changedata-" + key)
}

// DataManager stores keyed values and emits events as they change. Keys
// keep their insertion order.
type DataManager struct {
	parent any
	events *Emitter
	list   map[string]any
	keys   []string
	frozen bool
}

// NewDataManager creates a data manager. parent is reported in every event;
// events receives them and is created when nil.
func NewDataManager(parent any, events *Emitter) *DataManager {
	if events == nil {
		events = NewEmitter()
	}
	return &DataManager{parent: parent, events: events, list: make(map[string]any)}
}

// Events returns the emitter the manager reports to.
func (d *DataManager) Events() *Emitter { return d.events }

// Get returns the value under key, or nil.
func (d *DataManager) Get(key string) any { return d.list[key] }

// GetValues returns the values under keys in order.
func (d *DataManager) GetValues(keys ...string) []any {
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = d.list[k]
	}
	return out
}

// GetAll returns a copy of every key and value.
func (d *DataManager) GetAll() map[string]any {
	out := make(map[string]any, len(d.list))
	for _, k := range d.keys {
		out[k] = d.list[k]
	}
	return out
}

// Keys returns the keys in insertion order.
func (d *DataManager) Keys() []string { return slices.Clone(d.keys) }

// Query returns every key and value whose key matches match.
func (d *DataManager) Query(match func(key string) bool) map[string]any {
	out := make(map[string]any)
	for _, k := range d.keys {
		if match(k) {
			out[k] = d.list[k]
		}
	}
	return out
}

// Set stores value under key. New keys emit setdata; changed keys emit
// changedata and changedata-KEY. Nothing happens while frozen.
func (d *DataManager) Set(key string, value any) *DataManager {
	if d.frozen {
		return d
	}
	d.setValue(key, value)
	return d
}

// SetValues stores every entry of values in key order.
func (d *DataManager) SetValues(values map[string]any) *DataManager {
	if d.frozen {
		return d
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		d.setValue(k, values[k])
	}
	return d
}

func (d *DataManager) setValue(key string, value any) {
	if prev, ok := d.list[key]; ok {
		d.list[key] = value
		ev := DataEvent{Parent: d.parent, Key: key, Value: value, Previous: prev}
		Emit(d.events, DataChange, ev)
		Emit(d.events, DataChangeKey(key), ev)
		return
	}
	d.list[key] = value
	d.keys = append(d.keys, key)
	Emit(d.events, DataSet, DataEvent{Parent: d.parent, Key: key, Value: value})
}

// Inc adds amount to the number under key. A missing key counts as zero.
func (d *DataManager) Inc(key string, amount float64) *DataManager {
	if d.frozen {
		return d
	}
	v, ok := d.list[key]
	if !ok {
		v = 0.0
	}
	n, err := toFloat(v)
	if err != nil {
		warnf("inc %q: %v", key, err)
		return d
	}
	d.setValue(key, n+amount)
	return d
}

// Toggle flips the boolean under key. A missing key counts as false.
func (d *DataManager) Toggle(key string) *DataManager {
	if d.frozen {
		return d
	}
	b, _ := d.list[key].(bool)
	d.setValue(key, !b)
	return d
}

// Each calls fn for every key in order until fn returns false.
func (d *DataManager) Each(fn func(key string, value any) bool) *DataManager {
	for _, k := range slices.Clone(d.keys) {
		if !fn(k, d.list[k]) {
			break
		}
	}
	return d
}

// Merge copies every entry of data. Existing keys are kept unless overwrite.
func (d *DataManager) Merge(data map[string]any, overwrite bool) *DataManager {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if _, ok := d.list[k]; !ok || overwrite {
			d.Set(k, data[k])
		}
	}
	return d
}

// Remove deletes keys and emits removedata for each one that existed.
func (d *DataManager) Remove(keys ...string) *DataManager {
	if d.frozen {
		return d
	}
	for _, k := range keys {
		d.removeValue(k)
	}
	return d
}

func (d *DataManager) removeValue(key string) (any, bool) {
	v, ok := d.list[key]
	if !ok {
		return nil, false
	}
	delete(d.list, key)
	d.keys = slices.DeleteFunc(d.keys, func(k string) bool { return k == key })
	Emit(d.events, DataRemove, DataEvent{Parent: d.parent, Key: key, Value: v})
	return v, true
}

// Pop removes key and returns its value.
func (d *DataManager) Pop(key string) any {
	if d.frozen {
		return nil
	}
	v, _ := d.removeValue(key)
	return v
}

// Has reports whether key is set.
func (d *DataManager) Has(key string) bool {
	_, ok := d.list[key]
	return ok
}

// SetFreeze stops or restarts writes.
func (d *DataManager) SetFreeze(v bool) *DataManager {
	d.frozen = v
	return d
}

// Frozen reports whether writes are blocked.
func (d *DataManager) Frozen() bool { return d.frozen }

// Reset removes every key without events and unfreezes the manager.
func (d *DataManager) Reset() *DataManager {
	clear(d.list)
	d.keys = d.keys[:0]
	d.frozen = false
	return d
}

// Count returns the number of keys.
func (d *DataManager) Count() int { return len(d.keys) }

// Destroy resets the manager and drops its data listeners.
func (d *DataManager) Destroy() {
	d.Reset()
	d.events.RemoveAllListeners(DataSet.Name, DataChange.Name, DataRemove.Name)
	for _, name := range d.events.EventNames() {
		if strings.HasPrefix(name, "changedata-") {
			d.events.Off(name, nil)
		}
	}
	d.parent = nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("parse %q: %w", n, err)
		}
		return f, nil
	case nil:
		return 0, nil
	}
	return 0, fmt.Errorf("not a number: %T", v)
}

// DataManagerPlugin gives each scene its own DataManager, injected as
// "data". Values survive a scene restart and are cleared when the scene is
// destroyed.
type DataManagerPlugin struct {
	ScenePluginBase
	*DataManager
}

func init() {
	DefaultPluginCache.Register("DataManagerPlugin", func(scene *Scene, pm *PluginManager, key string) ScenePlugin {
		return newDataManagerPlugin(scene, pm, key)
	}, "data", false)
}

func newDataManagerPlugin(scene *Scene, pm *PluginManager, key string) *DataManagerPlugin {
	p := &DataManagerPlugin{ScenePluginBase: NewScenePluginBase(scene, pm, key)}
	p.DataManager = NewDataManager(scene, p.systems.events)
	On(p.systems.events, SceneStart, p, func(*Systems) { p.start() })
	return p
}

func (p *DataManagerPlugin) Boot() {
	On(p.systems.events, SceneDestroy, p, func(*Systems) { p.Destroy() })
}

func (p *DataManagerPlugin) start() {
	Once(p.systems.events, SceneShutdown, p, func(SceneData) { p.shutdown() })
}

func (p *DataManagerPlugin) shutdown() {
	p.systems.events.Off(SceneShutdown.Name, p)
}

// Destroy clears the data and releases the plugin.
func (p *DataManagerPlugin) Destroy() {
	if p.systems == nil {
		return
	}
	p.DataManager.Destroy()
	p.systems.events.RemoveOwner(p)
	p.ScenePluginBase.Destroy()
}
