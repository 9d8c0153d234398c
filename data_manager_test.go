package aspen

import (
	"slices"
	"testing"
)

func TestDataManagerSetEmitsSetThenChange(t *testing.T) {
	dm := NewDataManager("owner", nil)
	var sets, changes, keyed []DataEvent
	On(dm.Events(), DataSet, nil, func(e DataEvent) { sets = append(sets, e) })
	On(dm.Events(), DataChange, nil, func(e DataEvent) { changes = append(changes, e) })
	On(dm.Events(), DataChangeKey("gold"), nil, func(e DataEvent) { keyed = append(keyed, e) })

	dm.Set("gold", 10)
	dm.Set("gold", 25)

	if len(sets) != 1 || sets[0].Value != 10 || sets[0].Parent != "owner" {
		t.Fatalf("setdata events = %+v, want one with value 10", sets)
	}
	if len(changes) != 1 || changes[0].Value != 25 || changes[0].Previous != 10 {
		t.Errorf("changedata events = %+v, want 10 -> 25", changes)
	}
	if len(keyed) != 1 {
		t.Errorf("changedata-gold events = %d, want 1", len(keyed))
	}
	if got := dm.Get("gold"); got != 25 {
		t.Errorf("Get(gold) = %v, want 25", got)
	}
}

func TestDataManagerKeysKeepInsertionOrder(t *testing.T) {
	dm := NewDataManager(nil, nil)
	dm.Set("b", 1).Set("a", 2).Set("c", 3)
	if got := dm.Keys(); !slices.Equal(got, []string{"b", "a", "c"}) {
		t.Errorf("Keys = %v, want [b a c]", got)
	}
	dm.Remove("a")
	if got := dm.Keys(); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Keys after Remove = %v, want [b c]", got)
	}
	if dm.Count() != 2 {
		t.Errorf("Count = %d, want 2", dm.Count())
	}
}

func TestDataManagerIncAndToggle(t *testing.T) {
	dm := NewDataManager(nil, nil)
	dm.Inc("score", 5)
	dm.Inc("score", 2.5)
	if got := dm.Get("score"); got != 7.5 {
		t.Errorf("score = %v, want 7.5", got)
	}
	dm.Set("lives", 3)
	dm.Inc("lives", -1)
	if got := dm.Get("lives"); got != 2.0 {
		t.Errorf("lives = %v, want 2", got)
	}
	dm.Set("name", "x")
	dm.Inc("name", 1)
	if got := dm.Get("name"); got != "x" {
		t.Errorf("Inc on a non-number changed the value to %v", got)
	}

	dm.Toggle("muted")
	if got := dm.Get("muted"); got != true {
		t.Errorf("muted = %v, want true", got)
	}
	dm.Toggle("muted")
	if got := dm.Get("muted"); got != false {
		t.Errorf("muted = %v, want false", got)
	}
}

func TestDataManagerFreeze(t *testing.T) {
	dm := NewDataManager(nil, nil)
	dm.Set("a", 1)
	dm.SetFreeze(true)
	dm.Set("a", 2).Set("b", 3).Remove("a")
	if dm.Pop("a") != nil {
		t.Error("Pop while frozen returned a value")
	}
	if dm.Get("a") != 1 || dm.Has("b") {
		t.Errorf("frozen manager was written: a=%v has(b)=%v", dm.Get("a"), dm.Has("b"))
	}
	dm.Reset()
	if dm.Frozen() || dm.Count() != 0 {
		t.Errorf("Reset: frozen=%v count=%d, want false 0", dm.Frozen(), dm.Count())
	}
}

func TestDataManagerPopAndRemoveEvents(t *testing.T) {
	dm := NewDataManager(nil, nil)
	var removed []string
	On(dm.Events(), DataRemove, nil, func(e DataEvent) { removed = append(removed, e.Key) })

	dm.SetValues(map[string]any{"x": 1, "y": 2})
	if v := dm.Pop("x"); v != 1 {
		t.Errorf("Pop(x) = %v, want 1", v)
	}
	dm.Remove("y", "missing")
	if !slices.Equal(removed, []string{"x", "y"}) {
		t.Errorf("removed = %v, want [x y]", removed)
	}
}

func TestDataManagerQueryEachMerge(t *testing.T) {
	dm := NewDataManager(nil, nil)
	dm.SetValues(map[string]any{"enemy1": 1, "enemy2": 2, "hero": 3})

	q := dm.Query(func(k string) bool { return len(k) > 4 && k[:5] == "enemy" })
	if len(q) != 2 {
		t.Errorf("Query matched %d keys, want 2", len(q))
	}

	var seen []string
	dm.Each(func(k string, _ any) bool {
		seen = append(seen, k)
		return len(seen) < 2
	})
	if len(seen) != 2 {
		t.Errorf("Each visited %d keys, want 2", len(seen))
	}

	dm.Merge(map[string]any{"hero": 9, "boss": 4}, false)
	if dm.Get("hero") != 3 || dm.Get("boss") != 4 {
		t.Errorf("Merge without overwrite: hero=%v boss=%v", dm.Get("hero"), dm.Get("boss"))
	}
	dm.Merge(map[string]any{"hero": 9}, true)
	if dm.Get("hero") != 9 {
		t.Errorf("Merge with overwrite: hero=%v, want 9", dm.Get("hero"))
	}
}

func TestDataManagerDestroyDropsKeyedListeners(t *testing.T) {
	em := NewEmitter()
	dm := NewDataManager(nil, em)
	On(em, DataChangeKey("a"), nil, func(DataEvent) {})
	On(em, testPing, nil, func(int) {})
	dm.Set("a", 1)

	dm.Destroy()
	if em.ListenerCount("changedata-a") != 0 {
		t.Error("changedata-a listener survived Destroy")
	}
	if em.ListenerCount(testPing.Name) != 1 {
		t.Error("Destroy removed an unrelated listener")
	}
}
