package aspen

import (
	"slices"
	"testing"
)

func TestBaseCacheAddGetRemove(t *testing.T) {
	c := NewBaseCache()
	var added, removed []string
	On(c.Events(), CacheAdd, nil, func(e CacheEvent) { added = append(added, e.Key) })
	On(c.Events(), CacheRemove, nil, func(e CacheEvent) { removed = append(removed, e.Key) })

	c.Add("b", 2).Add("a", 1)
	if !c.Has("a") || !c.Exists("b") {
		t.Fatal("added keys not found")
	}
	if got := c.Get("a"); got != 1 {
		t.Errorf("Get(a) = %v, want 1", got)
	}
	if got := c.Keys(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Keys = %v, want [a b]", got)
	}

	c.Remove("a").Remove("missing")
	if c.Has("a") {
		t.Error("a still stored after Remove")
	}
	if !slices.Equal(added, []string{"b", "a"}) {
		t.Errorf("add events = %v, want [b a]", added)
	}
	if !slices.Equal(removed, []string{"a"}) {
		t.Errorf("remove events = %v, want [a]", removed)
	}
}

func TestCacheManagerBuiltinsAndCustom(t *testing.T) {
	cm := newCacheManager(nil)
	for _, name := range []string{CacheBinary, CacheJSON, CacheText, CacheShader, CacheAudio, CacheVideo} {
		if cm.Get(name) == nil {
			t.Errorf("built-in cache %q missing", name)
		}
	}
	if cm.JSON() != cm.Get(CacheJSON) || cm.Binary() != cm.Get(CacheBinary) {
		t.Error("typed accessors do not match Get")
	}
	if cm.Get("levels") != nil {
		t.Error("unknown cache is not nil")
	}

	levels := cm.AddCustom("levels")
	if cm.AddCustom("levels") != levels {
		t.Error("AddCustom returned a new cache for an existing name")
	}
	levels.Add("1", "data")
	cm.Destroy()
	if levels.Has("1") {
		t.Error("custom cache not emptied by Destroy")
	}
	if cm.Get("levels") != nil {
		t.Error("custom cache still registered after Destroy")
	}
}
