package aspen

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// testPluginCache returns a private copy of the built-in scene plugins so
// tests that install plugins do not leak into DefaultPluginCache.
func testPluginCache() *PluginCache {
	c := NewPluginCache()
	for _, key := range DefaultPluginCache.CoreKeys() {
		p, _ := DefaultPluginCache.GetCore(key)
		c.Register(key, p.Factory, p.Mapping, p.Custom)
	}
	return c
}

// testGame is a booted game driven by hand with a VirtualInput.
type testGame struct {
	*Game
	vi  *VirtualInput
	now float64
}

func newTestGame(t *testing.T, scenes ...Sceneable) *testGame {
	t.Helper()
	return newTestGameWith(t, nil, scenes...)
}

func newTestGameWith(t *testing.T, mod func(*GameConfig), scenes ...Sceneable) *testGame {
	t.Helper()
	vi := NewVirtualInput()
	cfg := DefaultGameConfig()
	cfg.InputSource = vi
	cfg.PluginCache = testPluginCache()
	cfg.Scenes = scenes
	if mod != nil {
		mod(&cfg)
	}
	g := NewGame(cfg)
	g.Boot()
	return &testGame{Game: g, vi: vi}
}

// step runs n game steps of 16ms each.
func (tg *testGame) step(n int) {
	for range n {
		tg.now += 16
		tg.Step(tg.now, 16)
	}
}

// recordScene logs its hooks.
type recordScene struct {
	*Scene
	log     []string
	data    []any
	updates int
}

func newRecordScene(key string) *recordScene {
	return &recordScene{Scene: NewScene(SceneConfig{Key: key})}
}

func (s *recordScene) Init(data any) {
	s.log = append(s.log, "init")
	s.data = append(s.data, data)
}

func (s *recordScene) Create(any) { s.log = append(s.log, "create") }

func (s *recordScene) Update(_, _ float64) { s.updates++ }

func stackKeys(sm *SceneManager) []string {
	var keys []string
	for _, s := range sm.GetScenes(false, false) {
		keys = append(keys, s.Key())
	}
	return keys
}
